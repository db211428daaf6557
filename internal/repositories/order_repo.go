package repositories

import "printshop/internal/models"

// OrderRepository defines the interface for order data access.
// Orders are never deleted.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	// GetAll returns the orders matching filter, newest first.
	GetAll(filter models.OrderFilter) ([]models.Order, error)
	UpdateStatus(id string, status models.OrderStatus) (*models.Order, error)
}
