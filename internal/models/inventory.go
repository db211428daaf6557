package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem tracks on-hand quantity of a stocked material or product.
type StockItem struct {
	ID            string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID     string           `json:"productId" gorm:"index;type:varchar(64)" validate:"required"`
	ProductName   string           `json:"productName" validate:"required"`
	Quantity      int              `json:"quantity" validate:"gte=0"`
	MinimumStock  int              `json:"minimumStock" validate:"gte=0"`
	LastOrderDate time.Time        `json:"lastOrderDate"`
	Supplier      string           `json:"supplier,omitempty"`
	Cost          *decimal.Decimal `json:"cost,omitempty" gorm:"type:decimal(12,2)"`
}

// TableName keeps the collection name used by the storefront.
func (StockItem) TableName() string {
	return "stock"
}

// LowStock reports whether the item is at or below its minimum.
func (s StockItem) LowStock() bool {
	return s.Quantity <= s.MinimumStock
}

// StockOrderStatus is the state of a supplier re-order.
type StockOrderStatus string

const (
	StockOrderPending   StockOrderStatus = "pending"
	StockOrderCompleted StockOrderStatus = "completed"
	StockOrderCancelled StockOrderStatus = "cancelled"
)

// StockOrder is a re-order placed with a supplier.
type StockOrder struct {
	ID          string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	StockItemID string           `json:"stockItemId" gorm:"index;type:varchar(36)" validate:"required"`
	ProductID   string           `json:"productId" validate:"required"`
	ProductName string           `json:"productName" validate:"required"`
	Quantity    int              `json:"quantity" validate:"gt=0"`
	Supplier    string           `json:"supplier" validate:"required"`
	Cost        decimal.Decimal  `json:"cost" gorm:"type:decimal(12,2)"`
	Status      StockOrderStatus `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
	OrderDate   time.Time        `json:"orderDate"`
}

// Client is a business customer managed from the back-office.
type Client struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name            string    `json:"name" validate:"required"`
	Email           string    `json:"email" validate:"required,email"`
	Phone           string    `json:"phone" validate:"required"`
	BusinessAddress string    `json:"businessAddress" validate:"required"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
