package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// SessionCookie carries the visitor's session ID.
	SessionCookie = "session_id"
	// SessionHeader is accepted in place of the cookie by API clients.
	SessionHeader = "X-Session-ID"

	localSessionID = "session_id"
)

// Session resolves the visitor's session ID from the session cookie or the
// X-Session-ID header, issuing a new one when neither is a valid UUID. The ID
// is echoed back in both the cookie and the header.
func Session(ttl time.Duration, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(SessionCookie)
		if id == "" {
			id = c.Get(SessionHeader)
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}

		c.Locals(localSessionID, id)
		c.Set(SessionHeader, id)
		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HTTPOnly: true,
			Secure:   secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.Next()
	}
}

// SessionID returns the session ID resolved by Session.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(localSessionID).(string)
	return id
}
