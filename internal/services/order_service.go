package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"shopapi/internal/apperrors"
	"shopapi/internal/models"
	"shopapi/internal/repositories"
)

// OrderEventPublisher publishes order lifecycle events. A nil publisher
// disables publication; order placement never fails because of it.
type OrderEventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// OrderService implements order placement and retrieval. Placement is a
// validate-then-commit pipeline: every line is checked against the catalog
// before anything is written, and the commit itself (order, items, stock
// decrements) is a single atomic repository operation.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	events      OrderEventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, events OrderEventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		events:      events,
	}
}

// PlaceOrder validates the requested lines, snapshots prices, and commits the
// order atomically. The first product found missing fails the request with
// apperrors.ErrNotFound; the first found short on stock fails it with
// *apperrors.InsufficientStockError naming the product. Neither leaves any
// partial effects.
func (s *OrderService) PlaceOrder(customerID string, lines []models.OrderLine) (*models.Order, error) {
	if customerID == "" {
		return nil, fmt.Errorf("customer id is required: %w", apperrors.ErrValidation)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("order must contain at least one item: %w", apperrors.ErrValidation)
	}
	for _, line := range lines {
		if line.ProductID == "" {
			return nil, fmt.Errorf("order line is missing a product id: %w", apperrors.ErrValidation)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("order line quantity must be positive: %w", apperrors.ErrValidation)
		}
	}

	// Validation pass: fetch every product and snapshot its price. The
	// snapshot is what goes into the order items; later price changes must
	// not affect this order.
	var totalAmount float64
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Stock < line.Quantity {
			return nil, &apperrors.InsufficientStockError{
				ProductName: product.Name,
				Requested:   line.Quantity,
				Available:   product.Stock,
			}
		}
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Price:       product.Price,
		})
		totalAmount += product.Price * float64(line.Quantity)
	}

	newOrder := &models.Order{
		ID:          uuid.New().String(),
		CustomerID:  customerID,
		OrderDate:   time.Now(),
		TotalAmount: totalAmount,
		Status:      "pending",
		Items:       items,
	}

	// Commit phase. The repository re-checks stock with guarded decrements
	// inside its transaction; the pre-check above only gives early, friendly
	// failures. Business failures are final, anything else gets one retry
	// for transient commit conflicts (e.g. serialization failures).
	if err := s.orderRepo.Create(newOrder); err != nil {
		var stockErr *apperrors.InsufficientStockError
		if errors.Is(err, apperrors.ErrNotFound) || errors.As(err, &stockErr) {
			return nil, err
		}
		log.Printf("Retrying order commit for customer %s after error: %v", customerID, err)
		if err := s.orderRepo.Create(newOrder); err != nil {
			var retryStockErr *apperrors.InsufficientStockError
			if errors.Is(err, apperrors.ErrNotFound) || errors.As(err, &retryStockErr) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
	}

	s.publishOrderCreated(newOrder)

	return newOrder, nil
}

// GetOrder retrieves an order. It is visible only to the customer who placed
// it; any other requester gets apperrors.ErrForbidden without further detail.
func (s *OrderService) GetOrder(id string, customerID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, apperrors.ErrForbidden
	}
	return order, nil
}

// publishOrderCreated emits an order.created event, best effort.
func (s *OrderService) publishOrderCreated(order *models.Order) {
	if s.events == nil {
		return
	}

	event := map[string]interface{}{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"status":      order.Status,
		"total":       order.TotalAmount,
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal order event for order %s: %v", order.ID, err)
		return
	}
	if err := s.events.Publish("order.created", body); err != nil {
		log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
		return
	}
	log.Printf("Published order created event for order %s", order.ID)
}
