package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopapi/internal/services"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token. On
// success it stores the identity claims (account id, customer id, admin flag)
// in the request locals for the handlers behind it.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		tokenString := parts[1]

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		accountID, _ := claims["account_id"].(string)
		customerID, _ := claims["customer_id"].(string)
		isAdmin, _ := claims["is_admin"].(bool)

		// Store identity in Fiber context for subsequent handlers
		c.Locals("account_id", accountID)
		c.Locals("customer_id", customerID)
		c.Locals("is_admin", isAdmin)

		// Continue to the next handler
		return c.Next()
	}
}
