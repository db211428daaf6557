package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"printshop/internal/catalog"
	"printshop/internal/handlers"
	"printshop/internal/middleware"
	"printshop/internal/repositories"
	"printshop/internal/services"
)

const (
	ownerEmail    = "owner@printshop.test"
	ownerPassword = "owner-password"
)

// setupApp wires the handlers against a private in-memory SQLite database,
// without a broker or an image store.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	log := zap.NewNop()

	db, err := repositories.OpenDatabase("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), true)
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))

	authService := services.NewAuthService(
		repositories.NewGORMUserRepository(db),
		repositories.NewGORMAdminUserRepository(db),
		services.AuthConfig{
			JWTSecret:     "test_jwt_secret",
			TokenTTL:      time.Hour,
			AdminEmail:    ownerEmail,
			AdminPassword: ownerPassword,
		}, log)
	require.NoError(t, authService.EnsureAdmin())

	productService := services.NewProductService(repositories.NewGORMProductRepository(db), nil, log)
	_, err = productService.Seed(catalog.Categories())
	require.NoError(t, err)

	orderService := services.NewOrderService(repositories.NewGORMOrderRepository(db), nil, log)
	inventoryService := services.NewInventoryService(
		repositories.NewGORMStockRepository(db),
		repositories.NewGORMStockOrderRepository(db),
		repositories.NewGORMClientRepository(db),
		nil, log)
	adminService := services.NewAdminService(repositories.NewGORMAdminUserRepository(db), log)
	sessions := services.NewSessionService(orderService, time.Hour, log)

	app := fiber.New()
	api := app.Group("/api/v1")
	authRequired := middleware.AuthRequired(authService, log)
	session := middleware.Session(time.Hour, false)
	optionalAuth := middleware.OptionalAuth(authService, log)

	handlers.NewAuthHandler(authService, log).RegisterRoutes(api, authRequired)
	handlers.NewCatalogHandler(productService, log).RegisterRoutes(api)
	handlers.NewCartHandler(sessions, productService, log).RegisterRoutes(api, session, optionalAuth)
	handlers.NewCheckoutHandler(sessions, log).RegisterRoutes(api, session, optionalAuth)

	orderHandler := handlers.NewOrderHandler(orderService, log)
	orderHandler.RegisterConfirmationRoutes(api)
	orderHandler.RegisterCustomerRoutes(api, authRequired)

	admin := api.Group("/admin", authRequired, middleware.AdminRequired(authService))
	orderHandler.RegisterAdminRoutes(admin)
	handlers.NewInventoryHandler(inventoryService, productService, log).RegisterRoutes(admin)
	handlers.NewAdminUserHandler(adminService, log).RegisterRoutes(admin)
	return app
}

// call sends a JSON request and decodes a JSON object response.
func call(t *testing.T, app *fiber.App, method, path string, body any, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func signIn(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, body := call(t, app, http.MethodPost, "/api/v1/auth/sign-in", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAuthFlow(t *testing.T) {
	app := setupApp(t)

	resp, body := call(t, app, http.MethodPost, "/api/v1/auth/sign-up", map[string]string{
		"email":       "jane@example.com",
		"password":    "password123",
		"displayName": "Jane",
	}, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "User registered successfully", body["message"])
	assert.Equal(t, false, body["isAdmin"])
	assert.NotEmpty(t, body["token"])

	resp, _ = call(t, app, http.MethodPost, "/api/v1/auth/sign-up", map[string]string{
		"email":    "JANE@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = call(t, app, http.MethodPost, "/api/v1/auth/sign-up", map[string]string{
		"email":    "not-an-email",
		"password": "123",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", body["message"])

	resp, _ = call(t, app, http.MethodPost, "/api/v1/auth/sign-in", map[string]string{
		"email":    "jane@example.com",
		"password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := signIn(t, app, "jane@example.com", "password123")

	resp, body = call(t, app, http.MethodGet, "/api/v1/auth/me", nil, bearer(token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	user, _ := body["user"].(map[string]any)
	assert.Equal(t, "jane@example.com", user["email"])
	assert.NotContains(t, user, "password")

	resp, _ = call(t, app, http.MethodPost, "/api/v1/auth/sign-out", nil, bearer(token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/v1/auth/me", nil, bearer(token))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCatalogEndpoints(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/services", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var categories []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&categories))
	assert.Len(t, categories, len(catalog.Categories()))

	r, body := call(t, app, http.MethodGet, "/api/v1/services/business-cards", nil, nil)
	assert.Equal(t, http.StatusOK, r.StatusCode)
	assert.Equal(t, "Business Cards", body["name"])

	r, body = call(t, app, http.MethodGet, "/api/v1/services/products/vinyl-banners", nil, nil)
	assert.Equal(t, http.StatusOK, r.StatusCode)
	assert.Equal(t, "customization", body["priceKind"])

	r, _ = call(t, app, http.MethodGet, "/api/v1/services/no-such-category", nil, nil)
	assert.Equal(t, http.StatusNotFound, r.StatusCode)

	r, _ = call(t, app, http.MethodGet, "/api/v1/services/products/no-such-product", nil, nil)
	assert.Equal(t, http.StatusNotFound, r.StatusCode)
}

func TestCartEndpoints(t *testing.T) {
	app := setupApp(t)

	resp, body := call(t, app, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"productId": "standard-cards",
		"quantity":  2,
		"selection": map[string]any{"color": "Full Color"},
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	sessionID := resp.Header.Get(middleware.SessionHeader)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, "119.98", body["total"])
	headers := map[string]string{middleware.SessionHeader: sessionID}

	// Same product and variant merges into one line.
	_, body = call(t, app, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"productId": "standard-cards",
		"quantity":  1,
		"selection": map[string]any{"color": "Full Color"},
	}, headers)
	assert.EqualValues(t, 1, body["itemCount"])
	assert.Equal(t, "179.97", body["total"])

	// A different variant is a separate line.
	_, body = call(t, app, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"productId": "standard-cards",
		"quantity":  1,
	}, headers)
	assert.EqualValues(t, 2, body["itemCount"])

	resp, _ = call(t, app, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"productId": "premium-cards",
		"quantity":  1,
	}, headers)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "display-priced products cannot be ordered")

	resp, _ = call(t, app, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"productId": "vinyl-banners",
		"quantity":  1,
	}, headers)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "sized products need a size")

	resp, body = call(t, app, http.MethodPatch, "/api/v1/cart/items", map[string]any{
		"productId":     "standard-cards",
		"selectedColor": "Full Color",
		"quantity":      5,
	}, headers)
	assert.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "349.94", body["total"])

	resp, _ = call(t, app, http.MethodPatch, "/api/v1/cart/items", map[string]any{
		"productId": "logo-design",
		"quantity":  1,
	}, headers)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = call(t, app, http.MethodDelete, "/api/v1/cart/items?productId=standard-cards", nil, headers)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["itemCount"])

	resp, body = call(t, app, http.MethodDelete, "/api/v1/cart", nil, headers)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["itemCount"])
}

func TestCheckoutToConfirmation(t *testing.T) {
	app := setupApp(t)

	resp, body := call(t, app, http.MethodPost, "/api/v1/checkout/next", nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "your cart is empty", body["message"])

	resp, _ = call(t, app, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"productId": "logo-design",
		"quantity":  1,
		"selection": map[string]any{"withDesign": true},
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	headers := map[string]string{middleware.SessionHeader: resp.Header.Get(middleware.SessionHeader)}

	step := func(body map[string]any) string {
		state, _ := body["checkout"].(map[string]any)
		s, _ := state["step"].(string)
		return s
	}

	_, body = call(t, app, http.MethodPost, "/api/v1/checkout/next", nil, headers)
	assert.Equal(t, "customer_details", step(body))

	resp, body = call(t, app, http.MethodPost, "/api/v1/checkout/next", nil, headers)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "customer_details", step(body))

	_, body = call(t, app, http.MethodPut, "/api/v1/checkout/customer-details", map[string]string{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"phone":   "555-0100",
		"address": "1 Main St",
	}, headers)
	assert.Equal(t, "customer_details", step(body))

	_, body = call(t, app, http.MethodPost, "/api/v1/checkout/next", nil, headers)
	assert.Equal(t, "schedule_pickup", step(body))

	resp, _ = call(t, app, http.MethodPut, "/api/v1/checkout/pickup", map[string]any{
		"pickupDate": time.Now().Add(-48 * time.Hour),
	}, headers)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	_, body = call(t, app, http.MethodPut, "/api/v1/checkout/pickup", map[string]any{
		"pickupDate": time.Now().Add(48 * time.Hour),
	}, headers)
	assert.Equal(t, "schedule_pickup", step(body))

	_, body = call(t, app, http.MethodPost, "/api/v1/checkout/next", nil, headers)
	assert.Equal(t, "confirm", step(body))

	_, body = call(t, app, http.MethodPost, "/api/v1/checkout/back", nil, headers)
	assert.Equal(t, "schedule_pickup", step(body))
	_, body = call(t, app, http.MethodPost, "/api/v1/checkout/next", nil, headers)
	assert.Equal(t, "confirm", step(body))

	resp, body = call(t, app, http.MethodPost, "/api/v1/checkout/submit", nil, headers)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "submitted", step(body))
	state, _ := body["checkout"].(map[string]any)
	orderID, _ := state["orderId"].(string)
	require.NotEmpty(t, orderID)

	_, body = call(t, app, http.MethodGet, "/api/v1/cart", nil, headers)
	assert.EqualValues(t, 0, body["itemCount"], "placing the order empties the cart")

	resp, body = call(t, app, http.MethodGet, "/api/v1/order-confirmation/"+orderID, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Jane Doe", body["customerName"])
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "349", body["totalAmount"])
	assert.NotContains(t, body, "customerDetails", "contact details stay private")
	assert.NotContains(t, body, "customerId")

	owner := bearer(signIn(t, app, ownerEmail, ownerPassword))
	resp, body = call(t, app, http.MethodGet, "/api/v1/admin/orders/"+orderID, nil, owner)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "guest", body["customerId"])
	customer, _ := body["customerDetails"].(map[string]any)
	assert.Equal(t, "jane@example.com", customer["email"])

	resp, _ = call(t, app, http.MethodGet, "/api/v1/order-confirmation/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCustomerOrdersAreScopedToTheSignedInUser(t *testing.T) {
	app := setupApp(t)

	resp, body := call(t, app, http.MethodPost, "/api/v1/auth/sign-up", map[string]string{
		"email":    "sam@example.com",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := body["token"].(string)

	resp, _ = call(t, app, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"productId": "standard-flyers",
		"quantity":  1,
		"selection": map[string]any{"size": "a5"},
	}, bearer(token))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	headers := bearer(token)
	headers[middleware.SessionHeader] = resp.Header.Get(middleware.SessionHeader)

	call(t, app, http.MethodPost, "/api/v1/checkout/next", nil, headers)
	call(t, app, http.MethodPut, "/api/v1/checkout/customer-details", map[string]string{
		"name": "Sam", "email": "sam@example.com", "phone": "555-0101", "address": "2 Side St",
	}, headers)
	call(t, app, http.MethodPost, "/api/v1/checkout/next", nil, headers)
	call(t, app, http.MethodPut, "/api/v1/checkout/pickup", map[string]any{"pickupDate": time.Now().Add(24 * time.Hour)}, headers)
	call(t, app, http.MethodPost, "/api/v1/checkout/next", nil, headers)
	resp, body = call(t, app, http.MethodPost, "/api/v1/checkout/next", nil, headers)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r, err := app.Test(req, -1)
	require.NoError(t, err)
	defer r.Body.Close()
	assert.Equal(t, http.StatusOK, r.StatusCode)
	var orders []map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "39.99", orders[0]["totalAmount"])

	resp, _ = call(t, app, http.MethodGet, "/api/v1/orders", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminEndpoints(t *testing.T) {
	app := setupApp(t)

	resp, _ := call(t, app, http.MethodGet, "/api/v1/admin/orders", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	call(t, app, http.MethodPost, "/api/v1/auth/sign-up", map[string]string{
		"email": "customer@example.com", "password": "password123",
	}, nil)
	customer := signIn(t, app, "customer@example.com", "password123")
	resp, _ = call(t, app, http.MethodGet, "/api/v1/admin/orders", nil, bearer(customer))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	owner := signIn(t, app, ownerEmail, ownerPassword)

	resp, body := call(t, app, http.MethodGet, "/api/v1/admin/dashboard", nil, bearer(owner))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["totalOrders"])

	resp, _ = call(t, app, http.MethodGet, "/api/v1/admin/orders?status=shipped", nil, bearer(owner))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/v1/admin/orders?from=yesterday", nil, bearer(owner))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPatch, "/api/v1/admin/orders/"+uuid.NewString()+"/status",
		map[string]string{"status": "completed"}, bearer(owner))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Granting admin to the customer takes effect on their existing token.
	resp, _ = call(t, app, http.MethodPost, "/api/v1/admin/users", map[string]string{
		"email": "customer@example.com", "role": "editor",
	}, bearer(owner))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = call(t, app, http.MethodGet, "/api/v1/admin/orders", nil, bearer(customer))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestInventoryEndpoints(t *testing.T) {
	app := setupApp(t)
	owner := bearer(signIn(t, app, ownerEmail, ownerPassword))

	resp, item := call(t, app, http.MethodPost, "/api/v1/admin/inventory/stock", map[string]any{
		"productId":    "standard-cards-350gsm",
		"productName":  "350gsm card stock",
		"quantity":     2,
		"minimumStock": 5,
		"supplier":     "Paper Co",
	}, owner)
	require.Equal(t, http.StatusCreated, resp.StatusCode, item)
	stockID, _ := item["id"].(string)
	require.NotEmpty(t, stockID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/inventory/stock/low", nil)
	req.Header.Set("Authorization", owner["Authorization"])
	r, err := app.Test(req, -1)
	require.NoError(t, err)
	var low []map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&low))
	r.Body.Close()
	assert.Len(t, low, 1)

	_, body := call(t, app, http.MethodGet, "/api/v1/admin/inventory/stock/availability/standard-cards", nil, owner)
	assert.Equal(t, true, body["available"])

	resp, body = call(t, app, http.MethodPost, "/api/v1/admin/inventory/stock-orders/process", map[string]any{
		"stockItemId": stockID,
		"productId":   "standard-cards-350gsm",
		"productName": "350gsm card stock",
		"quantity":    10,
		"supplier":    "Paper Co",
		"cost":        "42.50",
	}, owner)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	stockItem, _ := body["stockItem"].(map[string]any)
	assert.EqualValues(t, 12, stockItem["quantity"])
	stockOrder, _ := body["stockOrder"].(map[string]any)
	assert.Equal(t, "completed", stockOrder["status"])

	resp, _ = call(t, app, http.MethodPatch, "/api/v1/admin/inventory/stock/"+stockID+"/quantity", map[string]any{"quantity": -1}, owner)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, client := call(t, app, http.MethodPost, "/api/v1/admin/inventory/clients", map[string]any{
		"name":            "Acme",
		"email":           "buyer@acme.test",
		"phone":           "555-0199",
		"businessAddress": "9 Industrial Rd",
	}, owner)
	require.Equal(t, http.StatusCreated, resp.StatusCode, client)
	clientID, _ := client["id"].(string)

	resp, _ = call(t, app, http.MethodDelete, "/api/v1/admin/inventory/clients/"+clientID, nil, owner)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = call(t, app, http.MethodGet, "/api/v1/admin/inventory/clients/"+clientID, nil, owner)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPatch, "/api/v1/admin/inventory/products/standard-cards/availability", map[string]any{"isAvailable": false}, owner)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, app, http.MethodPost, "/api/v1/cart/items", map[string]any{"productId": "standard-cards", "quantity": 1}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "unavailable products cannot be added")
}
