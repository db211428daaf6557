// Package cart implements the shopping cart state: an ordered list of line
// items keyed by product and variant.
package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"printshop/internal/models"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("unit price cannot be negative")
	ErrItemNotFound    = errors.New("item not in cart")
	ErrMissingProduct  = errors.New("product ID is required")
)

// Key identifies a line: the same product with a different variant is a
// different line.
type Key struct {
	ProductID  string `json:"productId" query:"productId"`
	Color      string `json:"selectedColor,omitempty" query:"selectedColor"`
	Size       string `json:"selectedSize,omitempty" query:"selectedSize"`
	WithDesign bool   `json:"withDesign,omitempty" query:"withDesign"`
}

// KeyOf returns the line key of item.
func KeyOf(item models.CartLineItem) Key {
	return Key{
		ProductID:  item.ProductID,
		Color:      item.SelectedColor,
		Size:       item.SelectedSize,
		WithDesign: item.WithDesign,
	}
}

// Cart holds line items in insertion order. It is not safe for concurrent
// use; callers serialize access per session.
type Cart struct {
	items []models.CartLineItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add appends item, or merges its quantity into an existing line with the
// same key. The line total is always recomputed from the unit price.
func (c *Cart) Add(item models.CartLineItem) error {
	if item.ProductID == "" {
		return ErrMissingProduct
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, item.Quantity)
	}
	if item.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}

	if i := c.indexOf(KeyOf(item)); i >= 0 {
		line := &c.items[i]
		line.Quantity += item.Quantity
		line.TotalPrice = lineTotal(line.UnitPrice, line.Quantity)
		return nil
	}

	item.TotalPrice = lineTotal(item.UnitPrice, item.Quantity)
	c.items = append(c.items, item)
	return nil
}

// Remove deletes the line matching key and reports whether one existed.
func (c *Cart) Remove(key Key) bool {
	i := c.indexOf(key)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// UpdateQuantity sets the quantity of the line matching key, rescaling its
// total with the line's unit price.
func (c *Cart) UpdateQuantity(key Key, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	i := c.indexOf(key)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, key.ProductID)
	}
	line := &c.items[i]
	line.Quantity = quantity
	line.TotalPrice = lineTotal(line.UnitPrice, quantity)
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []models.CartLineItem {
	out := make([]models.CartLineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len is the number of lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// Total sums the line totals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

func (c *Cart) indexOf(key Key) int {
	for i, item := range c.items {
		if KeyOf(item) == key {
			return i
		}
	}
	return -1
}

func lineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}
