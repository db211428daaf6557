package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"printshop/internal/models"
	"printshop/internal/services"
	"printshop/pkg/storage"
)

// InventoryHandler serves the back-office inventory: stock, supplier
// re-orders, clients and the product catalog.
type InventoryHandler struct {
	inventory *services.InventoryService
	products  *services.ProductService
	log       *zap.Logger
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventory *services.InventoryService, products *services.ProductService, log *zap.Logger) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, products: products, log: log}
}

// RegisterRoutes registers the inventory routes.
func (h *InventoryHandler) RegisterRoutes(router fiber.Router) {
	inv := router.Group("/inventory")

	stock := inv.Group("/stock")
	stock.Get("/", h.HandleGetStock)
	stock.Post("/", h.HandleAddStock)
	stock.Get("/low", h.HandleGetLowStock)
	stock.Get("/availability/:productId", h.HandleStockAvailability)
	stock.Put("/:id", h.HandleUpdateStock)
	stock.Patch("/:id/quantity", h.HandleUpdateStockQuantity)

	stockOrders := inv.Group("/stock-orders")
	stockOrders.Get("/", h.HandleGetStockOrders)
	stockOrders.Post("/", h.HandleCreateStockOrder)
	stockOrders.Post("/process", h.HandleProcessStockOrder)

	clients := inv.Group("/clients")
	clients.Get("/", h.HandleGetClients)
	clients.Post("/", h.HandleAddClient)
	clients.Get("/:id", h.HandleGetClient)
	clients.Put("/:id", h.HandleUpdateClient)
	clients.Delete("/:id", h.HandleDeleteClient)

	products := inv.Group("/products")
	products.Get("/", h.HandleGetProducts)
	products.Post("/", h.HandleCreateProduct)
	products.Put("/:id", h.HandleUpdateProduct)
	products.Delete("/:id", h.HandleDeleteProduct)
	products.Patch("/:id/availability", h.HandleSetAvailability)
	products.Post("/:id/image", h.HandleUploadImage)
}

// HandleGetStock lists every stock item.
func (h *InventoryHandler) HandleGetStock(c *fiber.Ctx) error {
	items, err := h.inventory.GetStock()
	if err != nil {
		return fail(c, h.log, "Could not retrieve stock", err)
	}
	return c.JSON(items)
}

// HandleGetLowStock lists stock items at or below their minimum.
func (h *InventoryHandler) HandleGetLowStock(c *fiber.Ctx) error {
	items, err := h.inventory.GetLowStock()
	if err != nil {
		return fail(c, h.log, "Could not retrieve low stock", err)
	}
	return c.JSON(items)
}

// HandleAddStock creates a stock item.
func (h *InventoryHandler) HandleAddStock(c *fiber.Ctx) error {
	var item models.StockItem
	if err := c.BodyParser(&item); err != nil {
		return badRequest(c, err)
	}
	item.ID = ""
	if err := h.inventory.AddStockItem(&item); err != nil {
		return fail(c, h.log, "Could not add stock item", err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateStock replaces a stock item's fields.
func (h *InventoryHandler) HandleUpdateStock(c *fiber.Ctx) error {
	var item models.StockItem
	if err := c.BodyParser(&item); err != nil {
		return badRequest(c, err)
	}
	item.ID = c.Params("id")
	if err := h.inventory.UpdateStockItem(&item); err != nil {
		return fail(c, h.log, "Could not update stock item", err)
	}
	return c.JSON(item)
}

// HandleUpdateStockQuantity sets a stock item's quantity.
func (h *InventoryHandler) HandleUpdateStockQuantity(c *fiber.Ctx) error {
	var req struct {
		Quantity *int `json:"quantity" validate:"required"`
	}
	if handled, err := parseAndValidate(c, &req); handled {
		return err
	}
	if err := h.inventory.UpdateStockQuantity(c.Params("id"), *req.Quantity); err != nil {
		return fail(c, h.log, "Could not update stock quantity", err)
	}
	return c.JSON(fiber.Map{"message": "Stock quantity updated", "quantity": *req.Quantity})
}

// HandleStockAvailability reports whether any stock exists for a product ID prefix.
func (h *InventoryHandler) HandleStockAvailability(c *fiber.Ctx) error {
	productID := c.Params("productId")
	available, err := h.inventory.CheckStockAvailability(productID)
	if err != nil {
		return fail(c, h.log, "Could not check stock availability", err)
	}
	return c.JSON(fiber.Map{"productId": productID, "available": available})
}

// HandleGetStockOrders lists supplier re-orders, newest first.
func (h *InventoryHandler) HandleGetStockOrders(c *fiber.Ctx) error {
	orders, err := h.inventory.GetStockOrders()
	if err != nil {
		return fail(c, h.log, "Could not retrieve stock orders", err)
	}
	return c.JSON(orders)
}

// HandleCreateStockOrder records a supplier re-order without touching stock.
func (h *InventoryHandler) HandleCreateStockOrder(c *fiber.Ctx) error {
	var order models.StockOrder
	if err := c.BodyParser(&order); err != nil {
		return badRequest(c, err)
	}
	order.ID = ""
	if err := h.inventory.CreateStockOrder(&order); err != nil {
		return fail(c, h.log, "Could not create stock order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleProcessStockOrder receives a re-order into stock.
func (h *InventoryHandler) HandleProcessStockOrder(c *fiber.Ctx) error {
	var order models.StockOrder
	if err := c.BodyParser(&order); err != nil {
		return badRequest(c, err)
	}
	order.ID = ""
	item, err := h.inventory.ProcessStockOrder(&order)
	if err != nil {
		return fail(c, h.log, "Could not process stock order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"stockOrder": order,
		"stockItem":  item,
	})
}

// HandleGetClients lists business clients.
func (h *InventoryHandler) HandleGetClients(c *fiber.Ctx) error {
	clients, err := h.inventory.GetClients()
	if err != nil {
		return fail(c, h.log, "Could not retrieve clients", err)
	}
	return c.JSON(clients)
}

// HandleGetClient returns one business client.
func (h *InventoryHandler) HandleGetClient(c *fiber.Ctx) error {
	client, err := h.inventory.GetClient(c.Params("id"))
	if err != nil {
		return fail(c, h.log, "Could not retrieve client", err)
	}
	return c.JSON(client)
}

// HandleAddClient creates a business client.
func (h *InventoryHandler) HandleAddClient(c *fiber.Ctx) error {
	var client models.Client
	if err := c.BodyParser(&client); err != nil {
		return badRequest(c, err)
	}
	client.ID = ""
	if err := h.inventory.AddClient(&client); err != nil {
		return fail(c, h.log, "Could not add client", err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// HandleUpdateClient replaces a business client's fields.
func (h *InventoryHandler) HandleUpdateClient(c *fiber.Ctx) error {
	var client models.Client
	if err := c.BodyParser(&client); err != nil {
		return badRequest(c, err)
	}
	client.ID = c.Params("id")
	if err := h.inventory.UpdateClient(&client); err != nil {
		return fail(c, h.log, "Could not update client", err)
	}
	return c.JSON(client)
}

// HandleDeleteClient removes a business client.
func (h *InventoryHandler) HandleDeleteClient(c *fiber.Ctx) error {
	if err := h.inventory.DeleteClient(c.Params("id")); err != nil {
		return fail(c, h.log, "Could not delete client", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetProducts lists every stored product.
func (h *InventoryHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.products.GetAllProducts()
	if err != nil {
		return fail(c, h.log, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleCreateProduct adds a product to the catalog.
func (h *InventoryHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, err)
	}
	if err := h.products.CreateProduct(&product); err != nil {
		return fail(c, h.log, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces a product's fields.
func (h *InventoryHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, err)
	}
	product.ID = c.Params("id")
	if err := h.products.UpdateProduct(&product); err != nil {
		return fail(c, h.log, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product from the catalog.
func (h *InventoryHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.products.DeleteProduct(c.Params("id")); err != nil {
		return fail(c, h.log, "Could not delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSetAvailability marks a product as orderable or not.
func (h *InventoryHandler) HandleSetAvailability(c *fiber.Ctx) error {
	var req struct {
		Available *bool `json:"isAvailable" validate:"required"`
	}
	if handled, err := parseAndValidate(c, &req); handled {
		return err
	}
	product, err := h.products.SetAvailability(c.Params("id"), *req.Available)
	if err != nil {
		return fail(c, h.log, "Could not update availability", err)
	}
	return c.JSON(product)
}

// HandleUploadImage accepts a multipart "image" file and stores it as the
// product's image.
func (h *InventoryHandler) HandleUploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "An image file is required",
			"error":   err.Error(),
		})
	}
	contentType, err := storage.ValidateImage(fileHeader.Filename, fileHeader.Size)
	if err != nil {
		return fail(c, h.log, "Invalid image", err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fail(c, h.log, "Could not read image", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.log.Warn("failed to close uploaded file", zap.Error(closeErr))
		}
	}()
	body, err := io.ReadAll(file)
	if err != nil {
		return fail(c, h.log, "Could not read image", fmt.Errorf("read upload: %w", err))
	}

	product, url, err := h.products.UploadImage(c.UserContext(), c.Params("id"), fileHeader.Filename, contentType, body)
	if err != nil {
		return fail(c, h.log, "Could not upload image", err)
	}
	return c.JSON(fiber.Map{
		"product":  product,
		"imageUrl": url,
	})
}
