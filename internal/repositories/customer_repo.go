package repositories

import "shopapi/internal/models"

// CustomerRepository defines the interface for customer and account data access.
// A customer and its account are created and deleted together.
type CustomerRepository interface {
	Create(customer *models.Customer) error
	GetByID(id string) (*models.Customer, error)
	Update(customer *models.Customer) error
	Delete(id string) error
	GetAccountByUsername(username string) (*models.Account, error)
	GetAccountByID(id string) (*models.Account, error)
}
