package repositories

import (
	"time"

	"printshop/internal/models"
)

// StockRepository defines the interface for stock item storage.
type StockRepository interface {
	Create(item *models.StockItem) error
	GetAll() ([]models.StockItem, error)
	GetByID(id string) (*models.StockItem, error)
	Update(item *models.StockItem) error
	UpdateQuantity(id string, quantity int) error
	// GetLow returns the items whose quantity is at or below their minimum.
	GetLow() ([]models.StockItem, error)
	// FindByProductPrefix returns the items whose product ID starts with prefix.
	FindByProductPrefix(prefix string) ([]models.StockItem, error)
}

// StockOrderRepository defines the interface for supplier re-order storage.
type StockOrderRepository interface {
	Create(order *models.StockOrder) error
	GetAll() ([]models.StockOrder, error)
	// Receive records order and adds its quantity to the stock item it
	// references, stamping the item's last order date with at. Either both
	// writes happen or neither does.
	Receive(order *models.StockOrder, at time.Time) (*models.StockItem, error)
}

// ClientRepository defines the interface for business client storage.
type ClientRepository interface {
	Create(client *models.Client) error
	GetAll() ([]models.Client, error)
	GetByID(id string) (*models.Client, error)
	Update(client *models.Client) error
	Delete(id string) error
}
