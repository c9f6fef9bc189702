package repositories

import (
	"shopapi/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create commits an order, its items, and the matching stock decrements
	// atomically: either all of them are applied or none are.
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
}
