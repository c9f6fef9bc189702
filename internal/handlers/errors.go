package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shopapi/internal/apperrors"
)

// writeError maps a service/repository error to its HTTP status and writes
// the standard JSON {message} body.
func writeError(c *fiber.Ctx, err error) error {
	var stockErr *apperrors.InsufficientStockError
	status := fiber.StatusInternalServerError
	switch {
	case errors.As(err, &stockErr), errors.Is(err, apperrors.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{
		"message": err.Error(),
	})
}

// writeValidationError renders a validator.ValidationErrors as the
// field-by-field error map.
func writeValidationError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return writeError(c, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation))
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// requireAdmin is the explicit authorization check invoked at the top of every
// admin-gated handler. The admin flag comes from the token claims stored by
// the auth middleware, never from a database lookup.
func requireAdmin(c *fiber.Ctx) error {
	isAdmin, _ := c.Locals("is_admin").(bool)
	if !isAdmin {
		return fmt.Errorf("admin access required: %w", apperrors.ErrForbidden)
	}
	return nil
}

// customerIDFromCtx returns the authenticated customer's id.
func customerIDFromCtx(c *fiber.Ctx) string {
	customerID, _ := c.Locals("customer_id").(string)
	return customerID
}
