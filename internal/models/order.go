package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderLine is a single (product, quantity) pair submitted when placing an order.
type OrderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderItem represents a single line within a committed order. Price and
// ProductName are snapshots taken at order time; they are never re-derived
// from the product record afterwards.
type OrderItem struct {
	ID          uint    `json:"-" gorm:"primaryKey"`
	OrderID     string  `json:"-" gorm:"index;type:varchar(36)"`
	ProductID   string  `json:"product_id" gorm:"type:varchar(36)"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"` // Price at the time of order
}

// Order represents a customer order. Orders and their items are created
// atomically and never mutated afterwards.
type Order struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID  string      `json:"customer_id" gorm:"index;type:varchar(36)"`
	OrderDate   time.Time   `json:"order_date"`
	TotalAmount float64     `json:"total_amount"`
	Status      string      `json:"status"` // e.g., "pending", "processing", "shipped", "delivered", "cancelled"
	Items       []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	gorm.Model
}
