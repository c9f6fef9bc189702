package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shopapi/internal/models"
	"shopapi/internal/services"
)

// CustomerHandler handles the admin-gated customer management endpoints.
type CustomerHandler struct {
	service  *services.CustomerService
	validate *validator.Validate
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(service *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the customer routes with the Fiber app.
func (h *CustomerHandler) RegisterRoutes(router fiber.Router) {
	customerRoutes := router.Group("/customers")
	customerRoutes.Post("/", h.HandleCreateCustomer)
	customerRoutes.Get("/:id", h.HandleGetCustomer)
	customerRoutes.Put("/:id", h.HandleUpdateCustomer)
	customerRoutes.Delete("/:id", h.HandleDeleteCustomer)
}

// CreateCustomerRequest represents the request body for customer creation.
// A customer and its account are created together.
type CreateCustomerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateCustomerRequest represents a partial customer update.
type UpdateCustomerRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=30"`
}

// HandleCreateCustomer creates a new customer together with its account.
func (h *CustomerHandler) HandleCreateCustomer(c *fiber.Ctx) error {
	if err := requireAdmin(c); err != nil {
		return writeError(c, err)
	}

	var req CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create customer request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return writeValidationError(c, err)
	}

	customer := &models.Customer{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := h.service.Create(customer, req.Username, req.Password); err != nil {
		log.Printf("Error creating customer: %v", err)
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Customer created successfully",
		"id":      customer.ID,
	})
}

// HandleGetCustomer retrieves a customer view including its account username.
func (h *CustomerHandler) HandleGetCustomer(c *fiber.Ctx) error {
	if err := requireAdmin(c); err != nil {
		return writeError(c, err)
	}

	customer, err := h.service.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	var username interface{}
	if customer.Account != nil {
		username = customer.Account.Username
	}
	return c.JSON(fiber.Map{
		"id":       customer.ID,
		"name":     customer.Name,
		"email":    customer.Email,
		"phone":    customer.Phone,
		"username": username,
	})
}

// HandleUpdateCustomer applies a partial update to a customer.
func (h *CustomerHandler) HandleUpdateCustomer(c *fiber.Ctx) error {
	if err := requireAdmin(c); err != nil {
		return writeError(c, err)
	}

	var req UpdateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update customer request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return writeValidationError(c, err)
	}

	if _, err := h.service.Update(c.Params("id"), services.CustomerUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}); err != nil {
		log.Printf("Error updating customer %s: %v", c.Params("id"), err)
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Customer updated successfully",
	})
}

// HandleDeleteCustomer removes a customer and its account.
func (h *CustomerHandler) HandleDeleteCustomer(c *fiber.Ctx) error {
	if err := requireAdmin(c); err != nil {
		return writeError(c, err)
	}

	if err := h.service.Delete(c.Params("id")); err != nil {
		log.Printf("Error deleting customer %s: %v", c.Params("id"), err)
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Customer deleted successfully",
	})
}
