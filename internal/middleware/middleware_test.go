package middleware_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"printshop/internal/middleware"
	"printshop/internal/repositories"
	"printshop/internal/services"
)

func setupAuth(t *testing.T) *services.AuthService {
	t.Helper()
	db, err := repositories.OpenDatabase("sqlite", "file:"+uuid.New().String()+"?mode=memory&cache=shared", true)
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))

	return services.NewAuthService(
		repositories.NewGORMUserRepository(db),
		repositories.NewGORMAdminUserRepository(db),
		services.AuthConfig{JWTSecret: "middleware-secret", TokenTTL: time.Hour, AdminEmail: "owner@shop.example"},
		zap.NewNop(),
	)
}

func newTestApp(auth *services.AuthService) *fiber.App {
	app := fiber.New()
	log := zap.NewNop()

	app.Get("/private", middleware.AuthRequired(auth, log), func(c *fiber.Ctx) error {
		return c.SendString(middleware.UserID(c))
	})
	app.Get("/optional", middleware.OptionalAuth(auth, log), func(c *fiber.Ctx) error {
		return c.SendString("user=" + middleware.UserID(c))
	})
	app.Get("/admin", middleware.AuthRequired(auth, log), middleware.AdminRequired(auth), func(c *fiber.Ctx) error {
		return c.SendString("admin")
	})
	app.Get("/session", middleware.Session(time.Hour, false), func(c *fiber.Ctx) error {
		return c.SendString(middleware.SessionID(c))
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, token string, headers map[string]string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthRequired(t *testing.T) {
	auth := setupAuth(t)
	app := newTestApp(auth)

	user, token, err := auth.SignUp("customer@shop.example", "secret1", "")
	require.NoError(t, err)

	status, body := get(t, app, "/private", token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, user.ID, body)

	status, _ = get(t, app, "/private", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = get(t, app, "/private", "", map[string]string{"Authorization": "Token abc"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = get(t, app, "/private", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	require.NoError(t, auth.SignOut(token))
	status, _ = get(t, app, "/private", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status, "signed-out tokens are rejected")
}

func TestOptionalAuth(t *testing.T) {
	auth := setupAuth(t)
	app := newTestApp(auth)

	status, body := get(t, app, "/optional", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "user=", body)

	user, token, err := auth.SignUp("customer@shop.example", "secret1", "")
	require.NoError(t, err)
	_, body = get(t, app, "/optional", token, nil)
	assert.Equal(t, "user="+user.ID, body)

	status, _ = get(t, app, "/optional", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAdminRequired(t *testing.T) {
	auth := setupAuth(t)
	app := newTestApp(auth)

	_, customerToken, err := auth.SignUp("customer@shop.example", "secret1", "")
	require.NoError(t, err)
	_, ownerToken, err := auth.SignUp("owner@shop.example", "secret1", "")
	require.NoError(t, err)

	status, _ := get(t, app, "/admin", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = get(t, app, "/admin", customerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = get(t, app, "/admin", ownerToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestSession(t *testing.T) {
	app := newTestApp(setupAuth(t))

	req := httptest.NewRequest("GET", "/session", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	issued := resp.Header.Get(middleware.SessionHeader)
	_, err = uuid.Parse(issued)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Cookies())
	assert.Equal(t, middleware.SessionCookie, resp.Cookies()[0].Name)

	_, body := get(t, app, "/session", "", map[string]string{middleware.SessionHeader: issued})
	assert.Equal(t, issued, body, "a known session ID is kept")

	_, body = get(t, app, "/session", "", map[string]string{"Cookie": middleware.SessionCookie + "=" + issued})
	assert.Equal(t, issued, body)

	_, body = get(t, app, "/session", "", map[string]string{middleware.SessionHeader: "not-a-uuid"})
	assert.NotEqual(t, "not-a-uuid", body)
}
