package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"printshop/internal/middleware"
	"printshop/internal/services"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	log         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

// RegisterRoutes registers the authentication routes. authRequired guards
// the routes that need a signed-in user.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/sign-up", h.HandleSignUp)
	authRoutes.Post("/sign-in", h.HandleSignIn)
	authRoutes.Post("/sign-out", authRequired, h.HandleSignOut)
	authRoutes.Get("/me", authRequired, h.HandleMe)
}

// SignUpRequest is the body of a sign-up request.
type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"displayName" validate:"omitempty,max=100"`
}

// SignInRequest is the body of a sign-in request.
type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleSignUp registers a new account and signs it in.
func (h *AuthHandler) HandleSignUp(c *fiber.Ctx) error {
	var req SignUpRequest
	if handled, err := parseAndValidate(c, &req); handled {
		return err
	}

	user, token, err := h.authService.SignUp(req.Email, req.Password, req.DisplayName)
	if err != nil {
		return fail(c, h.log, "Registration failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
		"isAdmin": h.authService.IsAdmin(user.Email),
	})
}

// HandleSignIn authenticates a user and issues a JWT token.
func (h *AuthHandler) HandleSignIn(c *fiber.Ctx) error {
	var req SignInRequest
	if handled, err := parseAndValidate(c, &req); handled {
		return err
	}

	user, token, err := h.authService.SignIn(req.Email, req.Password)
	if err != nil {
		return fail(c, h.log, "Sign-in failed", err)
	}
	return c.JSON(fiber.Map{
		"message": "Signed in successfully",
		"user":    user,
		"token":   token,
		"isAdmin": h.authService.IsAdmin(user.Email),
	})
}

// HandleSignOut revokes the caller's token.
func (h *AuthHandler) HandleSignOut(c *fiber.Ctx) error {
	if err := h.authService.SignOut(middleware.Token(c)); err != nil {
		return fail(c, h.log, "Sign-out failed", err)
	}
	return c.JSON(fiber.Map{"message": "Signed out"})
}

// HandleMe returns the signed-in user.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.authService.UserByID(middleware.UserID(c))
	if err != nil {
		return fail(c, h.log, "Could not retrieve user", err)
	}
	return c.JSON(fiber.Map{
		"user":    user,
		"isAdmin": h.authService.IsAdmin(user.Email),
	})
}
