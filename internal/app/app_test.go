package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"printshop/internal/app"
	"printshop/internal/config"
	"printshop/internal/middleware"
	"printshop/internal/models"
	"printshop/internal/repositories"
)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:         config.EnvTest,
		AppPort:        ":0",
		DatabaseDriver: "sqlite",
		DatabaseDSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		JWTSecret:      "test_jwt_secret",
		TokenTTL:       time.Hour,
		AdminEmail:     "owner@printshop.test",
		AdminPassword:  "owner-password",
		SessionTTL:     time.Hour,
	}
}

func newApp(t *testing.T) *app.App {
	t.Helper()
	a, err := app.New(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.NoError(t, a.Shutdown(ctx))
	})
	return a
}

func get(t *testing.T, a *app.App, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp, body
}

func TestHealth(t *testing.T) {
	a := newApp(t)

	resp, body := get(t, a, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database"])
	assert.Equal(t, "disabled", body["rabbitmq"])
}

func TestIndex(t *testing.T) {
	a := newApp(t)

	resp, body := get(t, a, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/api/v1/services", body["services"])
}

func TestCatalogIsSeeded(t *testing.T) {
	a := newApp(t)

	resp, body := get(t, a, "/api/v1/services/products/standard-cards")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	product, _ := body["product"].(map[string]any)
	assert.Equal(t, "Standard Business Cards", product["name"])
	assert.Equal(t, true, product["isAvailable"])
}

func TestUnknownRoutes(t *testing.T) {
	a := newApp(t)

	resp, body := get(t, a, "/api/v1/does-not-exist")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", body["message"])

	resp, _ = get(t, a, "/some/old/page")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	a := newApp(t)

	resp, _ := get(t, a, "/api/v1/admin/dashboard")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := signInOwner(a)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = a.Fiber.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestImageUploadWithoutStore(t *testing.T) {
	a := newApp(t)
	token, err := signInOwner(a)
	require.NoError(t, err)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("image", "cards.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/inventory/products/standard-cards/image", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := a.Fiber.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestSessionsAreTracked(t *testing.T) {
	a := newApp(t)

	resp, _ := get(t, a, "/api/v1/cart")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.SessionHeader))

	_, body := get(t, a, "/health")
	assert.EqualValues(t, 1, body["sessions"])
}

func TestNewReleasesDatabaseOnFailure(t *testing.T) {
	cfg := testConfig()
	cfg.AdminPassword = "" // the admin account cannot be created

	_, err := app.New(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)

	// A shared in-memory SQLite database lives only while a connection is
	// open, so a closed handle leaves nothing behind for the same DSN.
	db, err := repositories.OpenDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN, true)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	assert.False(t, db.Migrator().HasTable(&models.User{}))
}

func signInOwner(a *app.App) (string, error) {
	_, token, err := a.Auth.SignIn("owner@printshop.test", "owner-password")
	return token, err
}
