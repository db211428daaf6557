package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceKind describes how a product is priced.
type PriceKind string

const (
	PriceKindFixed         PriceKind = "fixed"         // BasePrice applies
	PriceKindDisplay       PriceKind = "display"       // free-text DisplayPrice only, not purchasable online
	PriceKindCustomization PriceKind = "customization" // each size carries its own price
)

// Size is a sized variant of a product with its own price.
type Size struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Dimensions string          `json:"dimensions"`
	Price      decimal.Decimal `json:"price"`
}

// Customization describes the optional add-ons a product offers.
type Customization struct {
	HasDesign    bool             `json:"hasDesign"`
	DesignPrice  *decimal.Decimal `json:"designPrice,omitempty"`
	HasColor     bool             `json:"hasColor"`
	ColorOptions []string         `json:"colorOptions,omitempty"`
	ColorPrice   *decimal.Decimal `json:"colorPrice,omitempty"`
	HasSizes     bool             `json:"hasSizes"`
	Sizes        []Size           `json:"sizes,omitempty"`
}

// Product represents a product in the store.
type Product struct {
	ID            string           `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name          string           `json:"name" validate:"required,min=3,max=100"`
	Description   string           `json:"description" validate:"omitempty,max=500"`
	ImageURL      string           `json:"imageUrl"`
	Category      string           `json:"category" gorm:"index" validate:"required"`
	BasePrice     *decimal.Decimal `json:"basePrice,omitempty" gorm:"type:decimal(12,2)" validate:"required_without=DisplayPrice"`
	DisplayPrice  string           `json:"displayPrice,omitempty"`
	Dimensions    string           `json:"dimensions,omitempty"`
	Available     bool             `json:"isAvailable"`
	Customization *Customization   `json:"customization,omitempty" gorm:"serializer:json"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// PriceKind reports how the product is priced.
func (p Product) PriceKind() PriceKind {
	if p.Customization != nil && p.Customization.HasSizes && len(p.Customization.Sizes) > 0 {
		return PriceKindCustomization
	}
	if p.BasePrice != nil {
		return PriceKindFixed
	}
	return PriceKindDisplay
}

// Category groups products on the services page.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Products    []Product `json:"products"`
}
