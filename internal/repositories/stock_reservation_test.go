package repositories_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"shopapi/internal/apperrors"
	"shopapi/internal/models"
	"shopapi/internal/repositories"
)

func TestMockProductRepository_ReserveStock(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	product := &models.Product{Name: "Laptop", Price: 1200.00, Stock: 10}
	assert.NoError(t, repo.Create(product))

	// Successful reservation decrements by exactly the requested quantity
	assert.NoError(t, repo.ReserveStock(product.ID, 4))
	got, err := repo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, 6, got.Stock)

	// A reservation past the remaining stock fails and changes nothing
	err = repo.ReserveStock(product.ID, 7)
	var stockErr *apperrors.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Laptop", stockErr.ProductName)
	assert.Equal(t, 7, stockErr.Requested)
	assert.Equal(t, 6, stockErr.Available)
	got, _ = repo.GetByID(product.ID)
	assert.Equal(t, 6, got.Stock)

	// Unknown products are not found
	assert.ErrorIs(t, repo.ReserveStock("no-such-product", 1), apperrors.ErrNotFound)

	// Release returns the units
	assert.NoError(t, repo.ReleaseStock(product.ID, 4))
	got, _ = repo.GetByID(product.ID)
	assert.Equal(t, 10, got.Stock)
}

// Two concurrent reservations both asking for all remaining stock: exactly one
// may win, and stock must never go negative.
func TestMockProductRepository_ReserveStock_Concurrent(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	product := &models.Product{Name: "Mouse", Price: 25.00, Stock: 5}
	assert.NoError(t, repo.Create(product))

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = repo.ReserveStock(product.ID, 5)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			var stockErr *apperrors.InsufficientStockError
			assert.ErrorAs(t, err, &stockErr)
		}
	}
	assert.Equal(t, 1, successes)

	got, err := repo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestMockOrderRepository_Create_AllOrNothing(t *testing.T) {
	products := repositories.NewMockProductRepository()
	orders := repositories.NewMockOrderRepository(products)

	keyboard := &models.Product{Name: "Keyboard", Price: 75.00, Stock: 25}
	mouse := &models.Product{Name: "Mouse", Price: 25.00, Stock: 1}
	assert.NoError(t, products.Create(keyboard))
	assert.NoError(t, products.Create(mouse))

	order := &models.Order{
		CustomerID:  "cust-1",
		TotalAmount: 225.00,
		Status:      "pending",
		Items: []models.OrderItem{
			{ProductID: keyboard.ID, ProductName: "Keyboard", Quantity: 2, Price: 75.00},
			{ProductID: mouse.ID, ProductName: "Mouse", Quantity: 3, Price: 25.00},
		},
	}

	err := orders.Create(order)
	var stockErr *apperrors.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Mouse", stockErr.ProductName)

	// The keyboard reservation was rolled back and no order row exists.
	p, _ := products.GetByID(keyboard.ID)
	assert.Equal(t, 25, p.Stock)
	if order.ID != "" {
		_, err = orders.GetByID(order.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	}
}

func TestMockOrderRepository_Create_CommitsOrderAndStock(t *testing.T) {
	products := repositories.NewMockProductRepository()
	orders := repositories.NewMockOrderRepository(products)

	laptop := &models.Product{Name: "Laptop", Price: 1200.00, Stock: 10}
	assert.NoError(t, products.Create(laptop))

	order := &models.Order{
		CustomerID:  "cust-1",
		TotalAmount: 2400.00,
		Status:      "pending",
		Items: []models.OrderItem{
			{ProductID: laptop.ID, ProductName: "Laptop", Quantity: 2, Price: 1200.00},
		},
	}
	assert.NoError(t, orders.Create(order))
	assert.NotEmpty(t, order.ID)

	stored, err := orders.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, order.TotalAmount, stored.TotalAmount)
	assert.Len(t, stored.Items, 1)

	p, _ := products.GetByID(laptop.ID)
	assert.Equal(t, 8, p.Stock)
}
