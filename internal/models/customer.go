package models

import "gorm.io/gorm"

// Customer represents a customer of the store. A customer owns at most one
// Account; the two are created together by an admin and removed together.
type Customer struct {
	ID         string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string   `json:"name" validate:"required,min=2,max=100"`
	Email      string   `json:"email" validate:"required,email"`
	Phone      string   `json:"phone" validate:"omitempty,max=30"`
	Account    *Account `json:"-"`
	gorm.Model          // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Account holds a customer's login credentials and admin flag.
type Account struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	CustomerID string `json:"customer_id" gorm:"uniqueIndex;type:varchar(36)"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash; no json tag for security
	IsAdmin    bool   `json:"is_admin"`
	gorm.Model
}
