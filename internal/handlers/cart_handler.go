package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"printshop/internal/cart"
	"printshop/internal/catalog"
	"printshop/internal/middleware"
	"printshop/internal/services"
)

// CartHandler handles the visitor's cart. The cart belongs to the session
// resolved by middleware.Session.
type CartHandler struct {
	sessions *services.SessionService
	products *services.ProductService
	log      *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(sessions *services.SessionService, products *services.ProductService, log *zap.Logger) *CartHandler {
	return &CartHandler{sessions: sessions, products: products, log: log}
}

// RegisterRoutes registers the cart routes behind mw.
func (h *CartHandler) RegisterRoutes(router fiber.Router, mw ...fiber.Handler) {
	cartRoutes := router.Group("/cart", mw...)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// AddItemRequest adds quantity units of a product variant to the cart. The
// price is computed server-side from the catalog.
type AddItemRequest struct {
	ProductID string            `json:"productId" validate:"required"`
	Quantity  int               `json:"quantity" validate:"gt=0"`
	Selection catalog.Selection `json:"selection"`
}

// UpdateQuantityRequest sets the quantity of one cart line.
type UpdateQuantityRequest struct {
	cart.Key
	Quantity int `json:"quantity"`
}

// HandleGetCart returns the visitor's cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	return c.JSON(h.sessions.Cart(middleware.SessionID(c)))
}

// HandleAddItem prices a product variant and adds it to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if handled, err := parseAndValidate(c, &req); handled {
		return err
	}

	item, err := h.products.LineItem(req.ProductID, req.Selection, req.Quantity)
	if err != nil {
		return fail(c, h.log, "Could not add item to cart", err)
	}
	view, err := h.sessions.AddItem(middleware.SessionID(c), item)
	if err != nil {
		return fail(c, h.log, "Could not add item to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// HandleUpdateQuantity sets the quantity of one cart line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	view, err := h.sessions.UpdateQuantity(middleware.SessionID(c), req.Key, req.Quantity)
	if err != nil {
		return fail(c, h.log, "Could not update cart", err)
	}
	return c.JSON(view)
}

// HandleRemoveItem removes the line identified by the query parameters
// productId, selectedColor, selectedSize and withDesign.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	var key cart.Key
	if err := c.QueryParser(&key); err != nil {
		return badRequest(c, err)
	}

	view, removed := h.sessions.RemoveItem(middleware.SessionID(c), key)
	if !removed {
		return fail(c, h.log, "Could not remove item", cart.ErrItemNotFound)
	}
	return c.JSON(view)
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	return c.JSON(h.sessions.ClearCart(middleware.SessionID(c)))
}
