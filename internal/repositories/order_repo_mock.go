package repositories

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopapi/internal/apperrors"
	"shopapi/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository. It
// shares a MockProductRepository so order creation can apply the same
// all-or-nothing stock reservation the GORM implementation does in SQL.
type MockOrderRepository struct {
	orders   map[string]models.Order
	products *MockProductRepository
	mu       sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository backed
// by the given product store.
func NewMockOrderRepository(products *MockProductRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[string]models.Order),
		products: products,
	}
}

// Create stores the order after reserving stock for every item. All
// reservations happen under the product store's lock, so either every line is
// applied or none are.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products.mu.Lock()
	defer r.products.mu.Unlock()

	for i, item := range order.Items {
		if err := r.products.reserveLocked(item.ProductID, item.Quantity); err != nil {
			// Roll back the lines reserved so far.
			for _, done := range order.Items[:i] {
				_ = r.products.releaseLocked(done.ProductID, done.Quantity)
			}
			return err
		}
	}

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return &order, nil
}
