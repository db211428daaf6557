package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a customer order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// GuestCustomerID is recorded on orders placed without signing in.
const GuestCustomerID = "guest"

// CartLineItem represents one product/variant entry in a cart or order.
type CartLineItem struct {
	ProductID     string          `json:"productId" validate:"required"`
	Name          string          `json:"name"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	Quantity      int             `json:"quantity" validate:"gt=0"`
	SelectedColor string          `json:"selectedColor,omitempty"`
	SelectedSize  string          `json:"selectedSize,omitempty"`
	WithDesign    bool            `json:"withDesign,omitempty"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"` // UnitPrice * Quantity
}

// CustomerDetails is the contact snapshot captured during checkout.
type CustomerDetails struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	Notes   string `json:"notes,omitempty"`
}

// Order represents a customer order.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID      string          `json:"customerId" gorm:"index;type:varchar(36)"`
	CustomerDetails CustomerDetails `json:"customerDetails" gorm:"embedded;embeddedPrefix:customer_"`
	Items           []CartLineItem  `json:"items" gorm:"serializer:json"`
	Status          OrderStatus     `json:"status" gorm:"index;type:varchar(20)"`
	TotalAmount     decimal.Decimal `json:"totalAmount" gorm:"type:decimal(12,2)"`
	PickupDate      time.Time       `json:"pickupDate"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderConfirmation is the public view of a placed order: what was ordered
// and when to collect it, without the customer's contact details.
type OrderConfirmation struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customerName"`
	Items        []CartLineItem  `json:"items"`
	Status       OrderStatus     `json:"status"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	PickupDate   time.Time       `json:"pickupDate"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Confirmation returns the public view of o.
func (o Order) Confirmation() OrderConfirmation {
	return OrderConfirmation{
		ID:           o.ID,
		CustomerName: o.CustomerDetails.Name,
		Items:        o.Items,
		Status:       o.Status,
		TotalAmount:  o.TotalAmount,
		PickupDate:   o.PickupDate,
		CreatedAt:    o.CreatedAt,
	}
}

// OrderFilter narrows order listings. Zero values mean "no constraint".
type OrderFilter struct {
	CustomerID    string
	Status        OrderStatus
	CreatedAfter  time.Time
	CreatedBefore time.Time
}

// OrderSummary aggregates orders for the admin dashboard.
type OrderSummary struct {
	TotalOrders int                 `json:"totalOrders"`
	ByStatus    map[OrderStatus]int `json:"byStatus"`
	Revenue     decimal.Decimal     `json:"revenue"` // excludes cancelled orders
}
