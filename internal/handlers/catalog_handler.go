package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"printshop/internal/services"
)

// CatalogHandler serves the storefront's service categories and products.
type CatalogHandler struct {
	products *services.ProductService
	log      *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(products *services.ProductService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{products: products, log: log}
}

// RegisterRoutes registers the catalog routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	serviceRoutes := router.Group("/services")
	serviceRoutes.Get("/", h.HandleGetCategories)
	serviceRoutes.Get("/products/:productId", h.HandleGetProduct)
	serviceRoutes.Get("/:categoryId", h.HandleGetCategory)
}

// HandleGetCategories lists every category with its products.
func (h *CatalogHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.products.Categories()
	if err != nil {
		return fail(c, h.log, "Could not retrieve services", err)
	}
	return c.JSON(categories)
}

// HandleGetCategory returns one category.
func (h *CatalogHandler) HandleGetCategory(c *fiber.Ctx) error {
	category, err := h.products.GetCategory(c.Params("categoryId"))
	if err != nil {
		return fail(c, h.log, "Could not retrieve category", err)
	}
	return c.JSON(category)
}

// HandleGetProduct returns one product with its price kind.
func (h *CatalogHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.products.GetProductByID(c.Params("productId"))
	if err != nil {
		return fail(c, h.log, "Could not retrieve product", err)
	}
	return c.JSON(fiber.Map{
		"product":   product,
		"priceKind": product.PriceKind(),
	})
}
