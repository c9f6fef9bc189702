package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shopapi/internal/cache"
	"shopapi/internal/handlers"
	"shopapi/internal/middleware"
	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/services"
)

const (
	testJWTSecret = "test_jwt_secret"
	adminPassword = "admin_password"
	userPassword  = "user_password"
)

// setupApp builds the full Fiber app over a fresh in-memory SQLite database,
// seeded with one admin account and one plain customer account.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Customer{},
		&models.Account{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("failed to auto-migrate database: %v", err)
	}

	// Repositories
	customerRepo := repositories.NewGORMCustomerRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	seedAccount(t, customerRepo, "admin", adminPassword, true)
	seedAccount(t, customerRepo, "shopper", userPassword, false)

	// Services
	readCache := cache.New(300 * time.Second)
	authService := services.NewAuthService(customerRepo, testJWTSecret)
	customerService := services.NewCustomerService(customerRepo, readCache)
	productService := services.NewProductService(productRepo, readCache)
	orderService := services.NewOrderService(orderRepo, productRepo, nil) // nil publisher: no broker in tests

	app := fiber.New()

	handlers.NewAuthHandler(authService).RegisterRoutes(app)

	protected := app.Group("", middleware.AuthRequired(authService))
	handlers.NewCustomerHandler(customerService).RegisterRoutes(protected)
	handlers.NewProductHandler(productService).RegisterRoutes(protected)
	handlers.NewOrderHandler(orderService).RegisterRoutes(protected)

	return app
}

// seedAccount creates a customer+account pair directly through the repository.
func seedAccount(t *testing.T, repo repositories.CustomerRepository, username, password string, isAdmin bool) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	customer := &models.Customer{
		Name:  username,
		Email: username + "@example.com",
		Account: &models.Account{
			Username: username,
			Password: string(hashed),
			IsAdmin:  isAdmin,
		},
	}
	if err := repo.Create(customer); err != nil {
		t.Fatalf("failed to seed account %s: %v", username, err)
	}
}

// doJSON performs a JSON request with an optional bearer token and decodes the
// response body into a map.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1) // -1 for no timeout
	assert.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		assert.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

// login returns a bearer token for the given credentials.
func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	assert.Equal(t, http.StatusOK, status)
	token, _ := body["access_token"].(string)
	assert.NotEmpty(t, token)
	return token
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestLogin(t *testing.T) {
	app := setupApp(t)

	// Valid credentials
	status, body := doJSON(t, app, http.MethodPost, "/login", "", map[string]string{
		"username": "admin",
		"password": adminPassword,
	})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["access_token"])

	// Wrong password
	status, _ = doJSON(t, app, http.MethodPost, "/login", "", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	// Unknown username gets the same generic response
	status, body = doJSON(t, app, http.MethodPost, "/login", "", map[string]string{
		"username": "ghost",
		"password": adminPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid credentials", body["message"])
}

func TestAuthRequired(t *testing.T) {
	app := setupApp(t)

	// No token
	status, _ := doJSON(t, app, http.MethodGet, "/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// Garbage token
	status, _ = doJSON(t, app, http.MethodGet, "/products", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCustomerEndpointsAreAdminGated(t *testing.T) {
	app := setupApp(t)
	adminToken := login(t, app, "admin", adminPassword)
	userToken := login(t, app, "shopper", userPassword)

	payload := map[string]string{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"phone":    "555-0101",
		"username": "janedoe",
		"password": "password123",
	}

	// A non-admin credential is rejected
	status, _ := doJSON(t, app, http.MethodPost, "/customers", userToken, payload)
	assert.Equal(t, http.StatusForbidden, status)

	// An admin credential succeeds
	status, body := doJSON(t, app, http.MethodPost, "/customers", adminToken, payload)
	assert.Equal(t, http.StatusCreated, status)
	customerID, _ := body["id"].(string)
	assert.NotEmpty(t, customerID)

	// Duplicate username is a validation failure
	status, _ = doJSON(t, app, http.MethodPost, "/customers", adminToken, payload)
	assert.Equal(t, http.StatusBadRequest, status)

	// Reads are admin-gated too
	status, _ = doJSON(t, app, http.MethodGet, "/customers/"+customerID, userToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = doJSON(t, app, http.MethodGet, "/customers/"+customerID, adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Jane Doe", body["name"])
	assert.Equal(t, "janedoe", body["username"])

	// Partial update: only the phone changes
	status, _ = doJSON(t, app, http.MethodPut, "/customers/"+customerID, adminToken, map[string]string{
		"phone": "555-0199",
	})
	assert.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, app, http.MethodGet, "/customers/"+customerID, adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "555-0199", body["phone"])
	assert.Equal(t, "Jane Doe", body["name"])
	assert.Equal(t, "jane@example.com", body["email"])

	// Delete removes customer and account together
	status, _ = doJSON(t, app, http.MethodDelete, "/customers/"+customerID, adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodGet, "/customers/"+customerID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = doJSON(t, app, http.MethodPost, "/login", "", map[string]string{
		"username": "janedoe",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	// Unknown customer
	status, _ = doJSON(t, app, http.MethodGet, "/customers/no-such-id", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProductCRUD(t *testing.T) {
	app := setupApp(t)
	// Product mutation requires authentication only, not the admin flag.
	token := login(t, app, "shopper", userPassword)

	// Create with defaults: description empty, stock 0
	status, body := doJSON(t, app, http.MethodPost, "/products", token, map[string]interface{}{
		"name":  "Mechanical Keyboard",
		"price": 75.00,
	})
	assert.Equal(t, http.StatusCreated, status)
	productID, _ := body["id"].(string)
	assert.NotEmpty(t, productID)

	status, body = doJSON(t, app, http.MethodGet, "/products/"+productID, token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Mechanical Keyboard", body["name"])
	assert.Equal(t, "", body["description"])
	assert.Equal(t, 75.00, body["price"])
	assert.Equal(t, float64(0), body["stock"])

	// Missing price fails validation
	status, _ = doJSON(t, app, http.MethodPost, "/products", token, map[string]interface{}{
		"name": "No Price",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// Listing contains the product
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	var products []models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	resp.Body.Close()
	assert.Len(t, products, 1)

	// Partial update keeps absent fields
	status, _ = doJSON(t, app, http.MethodPut, "/products/"+productID, token, map[string]interface{}{
		"price": 80.00,
		"stock": 12,
	})
	assert.Equal(t, http.StatusOK, status)

	// A read within the cache window reflects the update, never the old price
	status, body = doJSON(t, app, http.MethodGet, "/products/"+productID, token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 80.00, body["price"])
	assert.Equal(t, float64(12), body["stock"])
	assert.Equal(t, "Mechanical Keyboard", body["name"])

	// Delete, then reads fail
	status, _ = doJSON(t, app, http.MethodDelete, "/products/"+productID, token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodGet, "/products/"+productID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Unknown product
	status, _ = doJSON(t, app, http.MethodPut, "/products/no-such-id", token, map[string]interface{}{
		"price": 1.00,
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestOrderFlow(t *testing.T) {
	app := setupApp(t)
	shopperToken := login(t, app, "shopper", userPassword)
	adminToken := login(t, app, "admin", adminPassword)

	// Seed the catalog: price=99.99, stock=10
	status, body := doJSON(t, app, http.MethodPost, "/products", shopperToken, map[string]interface{}{
		"name":  "Laptop",
		"price": 99.99,
		"stock": 10,
	})
	assert.Equal(t, http.StatusCreated, status)
	productID, _ := body["id"].(string)

	// Place an order for quantity=2
	status, body = doJSON(t, app, http.MethodPost, "/orders", shopperToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": productID, "quantity": 2},
		},
	})
	assert.Equal(t, http.StatusCreated, status)
	orderID, _ := body["id"].(string)
	assert.NotEmpty(t, orderID)

	// The owner sees total 199.98 with the snapshotted price
	status, body = doJSON(t, app, http.MethodGet, "/orders/"+orderID, shopperToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 199.98, body["total_amount"])
	assert.Equal(t, "pending", body["status"])
	items, _ := body["items"].([]interface{})
	assert.Len(t, items, 1)
	item, _ := items[0].(map[string]interface{})
	assert.Equal(t, 99.99, item["price"])
	assert.Equal(t, "Laptop", item["product_name"])
	assert.Equal(t, float64(2), item["quantity"])

	// Stock decreased by exactly the ordered quantity
	status, body = doJSON(t, app, http.MethodGet, "/products/"+productID, shopperToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(8), body["stock"])

	// A later price change must not alter the committed order
	status, _ = doJSON(t, app, http.MethodPut, "/products/"+productID, shopperToken, map[string]interface{}{
		"price": 149.99,
	})
	assert.Equal(t, http.StatusOK, status)
	status, body = doJSON(t, app, http.MethodGet, "/orders/"+orderID, shopperToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 199.98, body["total_amount"])

	// A different customer gets a bare 403
	status, _ = doJSON(t, app, http.MethodGet, "/orders/"+orderID, adminToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Ordering past the remaining stock fails naming the product, and
	// leaves the stock untouched
	status, body = doJSON(t, app, http.MethodPost, "/orders", shopperToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": productID, "quantity": 100},
		},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "Laptop")
	status, body = doJSON(t, app, http.MethodGet, "/products/"+productID, shopperToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(8), body["stock"])

	// Unknown product yields 404
	status, _ = doJSON(t, app, http.MethodPost, "/orders", shopperToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "no-such-product", "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusNotFound, status)

	// Non-positive quantity is rejected before the store is touched
	status, _ = doJSON(t, app, http.MethodPost, "/orders", shopperToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": productID, "quantity": 0},
		},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// Unknown order
	status, _ = doJSON(t, app, http.MethodGet, "/orders/no-such-order", shopperToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
