package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"printshop/internal/models"
	"printshop/internal/services"
)

// AdminUserHandler manages back-office access grants.
type AdminUserHandler struct {
	service *services.AdminService
	log     *zap.Logger
}

// NewAdminUserHandler creates a new AdminUserHandler.
func NewAdminUserHandler(service *services.AdminService, log *zap.Logger) *AdminUserHandler {
	return &AdminUserHandler{service: service, log: log}
}

// RegisterRoutes registers the admin user routes.
func (h *AdminUserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleList)
	userRoutes.Post("/", h.HandleGrant)
	userRoutes.Patch("/:id/role", h.HandleUpdateRole)
	userRoutes.Delete("/:id", h.HandleRevoke)
}

// GrantRequest gives an email back-office access.
type GrantRequest struct {
	Email string           `json:"email" validate:"required,email"`
	Role  models.AdminRole `json:"role" validate:"required,oneof=admin editor"`
}

// HandleList lists admin users.
func (h *AdminUserHandler) HandleList(c *fiber.Ctx) error {
	admins, err := h.service.ListAdmins()
	if err != nil {
		return fail(c, h.log, "Could not retrieve admin users", err)
	}
	return c.JSON(admins)
}

// HandleGrant grants back-office access to an email address.
func (h *AdminUserHandler) HandleGrant(c *fiber.Ctx) error {
	var req GrantRequest
	if handled, err := parseAndValidate(c, &req); handled {
		return err
	}
	admin, err := h.service.GrantAdmin(req.Email, req.Role)
	if err != nil {
		return fail(c, h.log, "Could not grant admin access", err)
	}
	return c.Status(fiber.StatusCreated).JSON(admin)
}

// HandleUpdateRole changes an admin user's role.
func (h *AdminUserHandler) HandleUpdateRole(c *fiber.Ctx) error {
	var req struct {
		Role models.AdminRole `json:"role" validate:"required,oneof=admin editor"`
	}
	if handled, err := parseAndValidate(c, &req); handled {
		return err
	}
	admin, err := h.service.UpdateRole(c.Params("id"), req.Role)
	if err != nil {
		return fail(c, h.log, "Could not update role", err)
	}
	return c.JSON(admin)
}

// HandleRevoke removes an admin user.
func (h *AdminUserHandler) HandleRevoke(c *fiber.Ctx) error {
	if err := h.service.RevokeAdmin(c.Params("id")); err != nil {
		return fail(c, h.log, "Could not revoke admin access", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
