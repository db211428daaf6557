package services

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"printshop/internal/models"
	"printshop/internal/repositories"
)

// InventoryService manages stock, supplier re-orders and business clients.
type InventoryService struct {
	stock       repositories.StockRepository
	stockOrders repositories.StockOrderRepository
	clients     repositories.ClientRepository
	events      EventPublisher
	log         *zap.Logger
	now         func() time.Time
}

// NewInventoryService creates a new InventoryService. events may be nil.
func NewInventoryService(
	stock repositories.StockRepository,
	stockOrders repositories.StockOrderRepository,
	clients repositories.ClientRepository,
	events EventPublisher,
	log *zap.Logger,
) *InventoryService {
	return &InventoryService{
		stock:       stock,
		stockOrders: stockOrders,
		clients:     clients,
		events:      events,
		log:         log,
		now:         time.Now,
	}
}

func (s *InventoryService) AddStockItem(item *models.StockItem) error {
	if err := validateStruct(item); err != nil {
		return err
	}
	return s.stock.Create(item)
}

func (s *InventoryService) GetStock() ([]models.StockItem, error) {
	return s.stock.GetAll()
}

// GetLowStock lists the items at or below their minimum stock.
func (s *InventoryService) GetLowStock() ([]models.StockItem, error) {
	return s.stock.GetLow()
}

func (s *InventoryService) UpdateStockItem(item *models.StockItem) error {
	if err := validateStruct(item); err != nil {
		return err
	}
	return s.stock.Update(item)
}

func (s *InventoryService) UpdateStockQuantity(id string, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidInput)
	}
	return s.stock.UpdateQuantity(id, quantity)
}

// CheckStockAvailability reports whether any stock item whose product ID
// starts with productID has a positive quantity.
func (s *InventoryService) CheckStockAvailability(productID string) (bool, error) {
	if strings.TrimSpace(productID) == "" {
		return false, fmt.Errorf("%w: product ID is required", ErrInvalidInput)
	}
	items, err := s.stock.FindByProductPrefix(productID)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item.Quantity > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (s *InventoryService) GetStockOrders() ([]models.StockOrder, error) {
	return s.stockOrders.GetAll()
}

// CreateStockOrder records a supplier re-order without touching stock.
func (s *InventoryService) CreateStockOrder(order *models.StockOrder) error {
	if order.Status == "" {
		order.Status = models.StockOrderPending
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = s.now()
	}
	if err := validateStruct(order); err != nil {
		return err
	}
	return s.stockOrders.Create(order)
}

// ProcessStockOrder receives a re-order: the ordered quantity is added to the
// stock item, its last order date is stamped and the order is recorded as
// completed, all in one write. A failed write leaves the stock untouched.
func (s *InventoryService) ProcessStockOrder(order *models.StockOrder) (*models.StockItem, error) {
	now := s.now()
	order.Status = models.StockOrderCompleted
	if order.OrderDate.IsZero() {
		order.OrderDate = now
	}
	if err := validateStruct(order); err != nil {
		return nil, err
	}

	item, err := s.stockOrders.Receive(order, now)
	if err != nil {
		return nil, err
	}

	s.log.Info("stock replenished",
		zap.String("stock_item_id", item.ID),
		zap.Int("added", order.Quantity),
		zap.Int("quantity", item.Quantity),
	)
	publish(s.events, s.log, EventStockReplenished, StockReplenishedEvent{
		StockItemID:  item.ID,
		ProductID:    item.ProductID,
		Added:        order.Quantity,
		NewQuantity:  item.Quantity,
		StockOrderID: order.ID,
	})
	return item, nil
}

func (s *InventoryService) GetClients() ([]models.Client, error) {
	return s.clients.GetAll()
}

func (s *InventoryService) GetClient(id string) (*models.Client, error) {
	return s.clients.GetByID(id)
}

func (s *InventoryService) AddClient(client *models.Client) error {
	if err := validateStruct(client); err != nil {
		return err
	}
	return s.clients.Create(client)
}

func (s *InventoryService) UpdateClient(client *models.Client) error {
	if err := validateStruct(client); err != nil {
		return err
	}
	client.UpdatedAt = s.now()
	return s.clients.Update(client)
}

func (s *InventoryService) DeleteClient(id string) error {
	return s.clients.Delete(id)
}
