package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"printshop/internal/checkout"
	"printshop/internal/middleware"
	"printshop/internal/models"
	"printshop/internal/services"
)

// CheckoutHandler drives the visitor's checkout wizard. Every response
// carries the wizard state; rejected events also carry the error.
type CheckoutHandler struct {
	sessions *services.SessionService
	log      *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(sessions *services.SessionService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, log: log}
}

// RegisterRoutes registers the checkout routes behind mw.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router, mw ...fiber.Handler) {
	checkoutRoutes := router.Group("/checkout", mw...)
	checkoutRoutes.Get("/", h.HandleGetState)
	checkoutRoutes.Post("/next", h.HandleNext)
	checkoutRoutes.Post("/back", h.HandleBack)
	checkoutRoutes.Put("/customer-details", h.HandleCustomerDetails)
	checkoutRoutes.Put("/pickup", h.HandlePickup)
	checkoutRoutes.Post("/submit", h.HandleSubmit)
}

// PickupRequest selects the pickup date and time.
type PickupRequest struct {
	PickupDate time.Time `json:"pickupDate"`
}

// HandleGetState returns the current checkout state.
func (h *CheckoutHandler) HandleGetState(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"checkout": h.sessions.Checkout(middleware.SessionID(c))})
}

// HandleNext moves the checkout forward one step, placing the order from the confirm step.
func (h *CheckoutHandler) HandleNext(c *fiber.Ctx) error {
	return h.dispatch(c, checkout.Next{})
}

// HandleBack moves the checkout back one step.
func (h *CheckoutHandler) HandleBack(c *fiber.Ctx) error {
	return h.dispatch(c, checkout.Back{})
}

// HandleCustomerDetails records the customer's contact details.
func (h *CheckoutHandler) HandleCustomerDetails(c *fiber.Ctx) error {
	var details models.CustomerDetails
	if err := c.BodyParser(&details); err != nil {
		return badRequest(c, err)
	}
	return h.dispatch(c, checkout.EnterDetails{Details: details})
}

// HandlePickup records the pickup date and time.
func (h *CheckoutHandler) HandlePickup(c *fiber.Ctx) error {
	var req PickupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	return h.dispatch(c, checkout.SelectPickup{At: req.PickupDate})
}

// HandleSubmit places the order from the confirm step.
func (h *CheckoutHandler) HandleSubmit(c *fiber.Ctx) error {
	return h.dispatch(c, checkout.Submit{})
}

func (h *CheckoutHandler) dispatch(c *fiber.Ctx, ev checkout.Event) error {
	state, err := h.sessions.Dispatch(middleware.SessionID(c), middleware.UserID(c), ev)
	if err != nil {
		status := errorStatus(err)
		if status >= fiber.StatusInternalServerError {
			h.log.Error("checkout failed", zap.String("session_id", middleware.SessionID(c)), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{
			"message":  state.Error,
			"error":    err.Error(),
			"checkout": state,
		})
	}
	return c.JSON(fiber.Map{"checkout": state})
}
