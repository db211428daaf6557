package catalog

import (
	"fmt"

	"printshop/internal/models"
)

// Validate checks categories and products for missing required fields and
// inconsistent customization. Problems are reported as human-readable
// warnings; an empty result means the catalog is clean.
func Validate(categories []models.Category) []string {
	var warnings []string
	seen := make(map[string]string)

	for _, c := range categories {
		if c.ID == "" {
			warnings = append(warnings, "Category missing ID")
		}
		if c.Name == "" {
			warnings = append(warnings, fmt.Sprintf("Category %s missing name", c.ID))
		}
		if c.Description == "" {
			warnings = append(warnings, fmt.Sprintf("Category %s missing description", c.ID))
		}
		if c.Icon == "" {
			warnings = append(warnings, fmt.Sprintf("Category %s missing icon", c.ID))
		}
		if len(c.Products) == 0 {
			warnings = append(warnings, fmt.Sprintf("Category %s has no products", c.ID))
		}

		for _, p := range c.Products {
			warnings = append(warnings, ValidateProduct(p)...)
			if p.ID == "" {
				continue
			}
			if other, dup := seen[p.ID]; dup {
				warnings = append(warnings, fmt.Sprintf("Product %s appears in both %s and %s", p.ID, other, c.ID))
			} else {
				seen[p.ID] = c.ID
			}
		}
	}
	return warnings
}

// ValidateProduct reports the warnings for a single product.
func ValidateProduct(p models.Product) []string {
	var warnings []string

	if p.ID == "" {
		warnings = append(warnings, "Product missing ID")
	}
	if p.Name == "" {
		warnings = append(warnings, fmt.Sprintf("Product %s missing name", p.ID))
	}
	if p.Description == "" {
		warnings = append(warnings, fmt.Sprintf("Product %s missing description", p.ID))
	}
	if p.ImageURL == "" {
		warnings = append(warnings, fmt.Sprintf("Product %s missing imageUrl", p.ID))
	}
	if p.Category == "" {
		warnings = append(warnings, fmt.Sprintf("Product %s missing category", p.ID))
	}
	if p.BasePrice == nil && p.DisplayPrice == "" {
		warnings = append(warnings, fmt.Sprintf("Product %s missing price information", p.ID))
	}

	c := p.Customization
	if c == nil {
		return warnings
	}
	if c.HasDesign && c.DesignPrice == nil {
		warnings = append(warnings, fmt.Sprintf("Product %s has design but invalid designPrice", p.ID))
	}
	if c.HasColor && (len(c.ColorOptions) == 0 || c.ColorPrice == nil) {
		warnings = append(warnings, fmt.Sprintf("Product %s has color but invalid color options or price", p.ID))
	}
	if c.HasSizes && len(c.Sizes) == 0 {
		warnings = append(warnings, fmt.Sprintf("Product %s has sizes but no size options", p.ID))
	}
	for _, s := range c.Sizes {
		if !s.Price.IsPositive() {
			warnings = append(warnings, fmt.Sprintf("Product %s size %s has no price", p.ID, s.ID))
		}
	}
	return warnings
}
