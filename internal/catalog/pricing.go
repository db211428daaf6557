package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"printshop/internal/models"
)

var (
	ErrNotPurchasable   = errors.New("product is priced on request and cannot be ordered online")
	ErrSizeRequired     = errors.New("a size must be selected for this product")
	ErrUnknownSize      = errors.New("unknown size")
	ErrUnknownColor     = errors.New("unknown color option")
	ErrDesignNotOffered = errors.New("design add-on is not offered for this product")
)

// Selection is the customer's choice of variant and add-ons.
type Selection struct {
	Color      string `json:"color,omitempty"`
	Size       string `json:"size,omitempty"`
	WithDesign bool   `json:"withDesign,omitempty"`
}

// UnitPrice computes the price of one unit of p with the given selection.
// Sized products take the selected size's price as the base; color and
// design add-ons are added on top.
func UnitPrice(p models.Product, sel Selection) (decimal.Decimal, error) {
	c := p.Customization
	var unit decimal.Decimal

	switch p.PriceKind() {
	case models.PriceKindDisplay:
		return decimal.Zero, ErrNotPurchasable
	case models.PriceKindCustomization:
		if sel.Size == "" {
			return decimal.Zero, ErrSizeRequired
		}
		found := false
		for _, s := range c.Sizes {
			if s.ID == sel.Size {
				unit, found = s.Price, true
				break
			}
		}
		if !found {
			return decimal.Zero, fmt.Errorf("%w %q for product %s", ErrUnknownSize, sel.Size, p.ID)
		}
	default:
		if sel.Size != "" {
			return decimal.Zero, fmt.Errorf("%w %q for product %s", ErrUnknownSize, sel.Size, p.ID)
		}
		unit = *p.BasePrice
	}

	if sel.Color != "" {
		if c == nil || !c.HasColor || !contains(c.ColorOptions, sel.Color) {
			return decimal.Zero, fmt.Errorf("%w %q for product %s", ErrUnknownColor, sel.Color, p.ID)
		}
		if c.ColorPrice != nil {
			unit = unit.Add(*c.ColorPrice)
		}
	}

	if sel.WithDesign {
		if c == nil || !c.HasDesign {
			return decimal.Zero, ErrDesignNotOffered
		}
		if c.DesignPrice != nil {
			unit = unit.Add(*c.DesignPrice)
		}
	}
	return unit, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
