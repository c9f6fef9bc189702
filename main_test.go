package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
)

func TestOpenDatabase(t *testing.T) {
	db, err := openDatabase("sqlite", "file:opendb?mode=memory&cache=shared")
	assert.NoError(t, err)
	assert.NotNil(t, db)

	assert.NoError(t, db.AutoMigrate(
		&models.Customer{},
		&models.Account{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))
}

func TestSeedAdmin(t *testing.T) {
	db, err := openDatabase("sqlite", "file:seedadmin?mode=memory&cache=shared")
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Customer{}, &models.Account{}))

	repo := repositories.NewGORMCustomerRepository(db)

	// Without a configured password the seed is skipped
	viper.Set("ADMIN_USERNAME", "admin")
	viper.Set("ADMIN_PASSWORD", "")
	assert.NoError(t, seedAdmin(repo))
	_, err = repo.GetAccountByUsername("admin")
	assert.Error(t, err)

	// With a password, the admin customer+account pair is created
	viper.Set("ADMIN_PASSWORD", "bootstrap_password")
	viper.Set("ADMIN_EMAIL", "admin@example.com")
	assert.NoError(t, seedAdmin(repo))

	account, err := repo.GetAccountByUsername("admin")
	assert.NoError(t, err)
	assert.True(t, account.IsAdmin)
	assert.NotEmpty(t, account.CustomerID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.Password), []byte("bootstrap_password")))

	// Seeding again is a no-op, not a duplicate
	assert.NoError(t, seedAdmin(repo))
	customer, err := repo.GetByID(account.CustomerID)
	assert.NoError(t, err)
	assert.Equal(t, "Administrator", customer.Name)
}
