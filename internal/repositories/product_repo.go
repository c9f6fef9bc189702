package repositories

import (
	"shopapi/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	// ReserveStock atomically checks stock >= quantity and decrements it.
	// Returns *apperrors.InsufficientStockError when the check fails and
	// apperrors.ErrNotFound when the product does not exist. Safe under
	// concurrent callers.
	ReserveStock(id string, quantity int) error
	// ReleaseStock returns previously reserved units (compensation path).
	ReleaseStock(id string, quantity int) error
}
