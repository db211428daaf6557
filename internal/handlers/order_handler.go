package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"printshop/internal/middleware"
	"printshop/internal/models"
	"printshop/internal/services"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
	log     *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log,
	}
}

// RegisterConfirmationRoutes registers the public order confirmation page.
func (h *OrderHandler) RegisterConfirmationRoutes(router fiber.Router) {
	router.Get("/order-confirmation/:id", h.HandleGetConfirmation)
}

// RegisterCustomerRoutes registers the signed-in customer's order routes.
// authRequired must resolve the caller.
func (h *OrderHandler) RegisterCustomerRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/orders", authRequired, h.HandleGetMyOrders)
}

// RegisterAdminRoutes registers the back-office order routes.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/dashboard", h.HandleDashboard)
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// HandleGetConfirmation returns the public confirmation view of an order.
func (h *OrderHandler) HandleGetConfirmation(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		return fail(c, h.log, fmt.Sprintf("Order with ID %s not found", orderID), err)
	}
	return c.JSON(order.Confirmation())
}

// HandleGetOrderByID retrieves a single order by its ID, with the customer's
// contact details.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		return fail(c, h.log, fmt.Sprintf("Order with ID %s not found", orderID), err)
	}
	return c.JSON(order)
}

// HandleGetMyOrders lists the caller's orders, newest first.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetCustomerOrders(middleware.UserID(c))
	if err != nil {
		return fail(c, h.log, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrders lists every order, newest first. The query parameters
// status, from and to (RFC 3339) narrow the listing.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	filter := models.OrderFilter{
		Status:     models.OrderStatus(c.Query("status")),
		CustomerID: c.Query("customerId"),
	}
	var err error
	if filter.CreatedAfter, err = parseTimeQuery(c, "from"); err != nil {
		return badRequest(c, err)
	}
	if filter.CreatedBefore, err = parseTimeQuery(c, "to"); err != nil {
		return badRequest(c, err)
	}

	orders, err := h.service.GetAllOrders(filter)
	if err != nil {
		return fail(c, h.log, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var updateData struct {
		Status models.OrderStatus `json:"status" validate:"required"`
	}
	if handled, err := parseAndValidate(c, &updateData); handled {
		return err
	}

	order, err := h.service.UpdateOrderStatus(c.Params("id"), updateData.Status)
	if err != nil {
		return fail(c, h.log, "Could not update order status", err)
	}
	return c.JSON(fiber.Map{
		"message": "Order status updated successfully",
		"order":   order,
	})
}

// HandleDashboard returns the order summary for the admin dashboard.
func (h *OrderHandler) HandleDashboard(c *fiber.Ctx) error {
	summary, err := h.service.Summary()
	if err != nil {
		return fail(c, h.log, "Could not build dashboard", err)
	}
	return c.JSON(summary)
}

func parseTimeQuery(c *fiber.Ctx, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("query parameter %s: %w", key, err)
	}
	return t, nil
}
