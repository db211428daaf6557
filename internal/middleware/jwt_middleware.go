package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"printshop/internal/services"
)

const (
	localUserID  = "user_id"
	localEmail   = "email"
	localIsAdmin = "is_admin"
	localToken   = "token"
)

var errMissingHeader = errors.New("authorization header is required")

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", errMissingHeader
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") || parts[1] == "" {
		return "", errors.New("authorization header format must be 'Bearer <token>'")
	}
	return parts[1], nil
}

func storeClaims(c *fiber.Ctx, token string, claims *services.Claims) {
	c.Locals(localUserID, claims.UserID)
	c.Locals(localEmail, claims.Email)
	c.Locals(localIsAdmin, claims.IsAdmin)
	c.Locals(localToken, token)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
				"error":   err.Error(),
			})
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Debug("JWT validation failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		storeClaims(c, tokenString, claims)
		return c.Next()
	}
}

// OptionalAuth records the caller's identity when a valid token is present
// and lets anonymous requests through. A present but invalid token is
// rejected.
func OptionalAuth(authService *services.AuthService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}
		return AuthRequired(authService, log)(c)
	}
}

// AdminRequired allows only back-office users. It must run after
// AuthRequired. Access is checked against the current grants, not the
// flag baked into the token.
func AdminRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !authService.IsAdmin(Email(c)) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's ID, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

// Email returns the authenticated user's email, or "".
func Email(c *fiber.Ctx) string {
	email, _ := c.Locals(localEmail).(string)
	return email
}

// Token returns the bearer token of an authenticated request.
func Token(c *fiber.Ctx) string {
	token, _ := c.Locals(localToken).(string)
	return token
}
