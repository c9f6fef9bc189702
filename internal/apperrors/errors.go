// Package apperrors defines the error taxonomy shared by repositories,
// services, and handlers. Handlers map these to HTTP statuses; nothing in the
// request path matches on error strings.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing input (HTTP 400).
	ErrValidation = errors.New("invalid request")
	// ErrNotFound marks an unknown resource id (HTTP 404).
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials is returned on login failure. It is deliberately
	// generic: unknown username and wrong password are indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden marks an authenticated but not permitted request (HTTP 403).
	ErrForbidden = errors.New("forbidden")
	// ErrUsernameTaken is a validation failure on account creation.
	ErrUsernameTaken = fmt.Errorf("username already taken: %w", ErrValidation)
)

// InsufficientStockError is returned when an order requests more units of a
// product than are available. It carries the product's display name for the
// client-facing message.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested: %d, available: %d)",
		e.ProductName, e.Requested, e.Available)
}
