// Package catalog holds the static service catalog shown on the storefront,
// its startup validation pass and the unit-price rules for customizable products.
package catalog

import (
	"github.com/shopspring/decimal"

	"printshop/internal/models"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func size(id, name, dimensions, p string) models.Size {
	return models.Size{ID: id, Name: name, Dimensions: dimensions, Price: decimal.RequireFromString(p)}
}

var colors = []string{"Full Color", "Black & White"}

var services = []models.Category{
	{
		ID:          "graphic-design",
		Name:        "Graphic Design",
		Description: "Professional graphic design services for all your branding needs",
		Icon:        "design",
		Products: []models.Product{
			{
				ID:          "logo-design",
				Name:        "Logo Design",
				Description: "Custom logo design with unlimited revisions",
				ImageURL:    "/images/services/logo-design.jpg",
				Category:    "graphic-design",
				BasePrice:   price("299"),
				Customization: &models.Customization{
					HasDesign: true, DesignPrice: price("50"),
					HasColor: true, ColorOptions: colors, ColorPrice: price("25"),
				},
			},
			{
				ID:          "branding",
				Name:        "Brand Identity Package",
				Description: "Complete brand identity including logo, business cards, and letterhead",
				ImageURL:    "/images/services/branding.jpg",
				Category:    "graphic-design",
				BasePrice:   price("599"),
				Customization: &models.Customization{
					HasDesign: true, DesignPrice: price("100"),
					HasColor: true, ColorOptions: colors, ColorPrice: price("50"),
				},
			},
			{
				ID:           "social-media",
				Name:         "Social Media Design",
				Description:  "Eye-catching social media graphics and templates for your brand",
				ImageURL:     "/images/services/social-media.jpg",
				Category:     "graphic-design",
				DisplayPrice: "From $199/month",
			},
		},
	},
	{
		ID:          "banners",
		Name:        "Banners",
		Description: "High-quality banner printing for indoor and outdoor use",
		Icon:        "banner",
		Products: []models.Product{
			{
				ID:          "vinyl-banners",
				Name:        "Vinyl Banners",
				Description: "Durable vinyl banners perfect for outdoor events",
				ImageURL:    "/images/services/vinyl-banners.jpg",
				Category:    "banners",
				BasePrice:   price("8.99"),
				Customization: &models.Customization{
					HasDesign: true, DesignPrice: price("30"),
					HasColor: true, ColorOptions: colors, ColorPrice: price("5"),
					HasSizes: true,
					Sizes: []models.Size{
						size("small", "Small", "2x4 ft", "8.99"),
						size("medium", "Medium", "3x6 ft", "15.99"),
						size("large", "Large", "4x8 ft", "24.99"),
					},
				},
			},
			{
				ID:           "mesh-banners",
				Name:         "Mesh Banners",
				Description:  "Wind-resistant mesh banners ideal for construction sites",
				ImageURL:     "/images/services/mesh-banners.jpg",
				Category:     "banners",
				DisplayPrice: "From $10.99/sqft",
			},
			{
				ID:           "pull-up-banners",
				Name:         "Pull-up Banners",
				Description:  "Portable retractable banners perfect for trade shows and presentations",
				ImageURL:     "/images/services/pull-up-banners.jpg",
				Category:     "banners",
				DisplayPrice: "From $149.00",
				Dimensions:   `33" x 78"`,
			},
		},
	},
	{
		ID:          "lamination",
		Name:        "Lamination",
		Description: "Professional lamination services for documents and prints",
		Icon:        "lamination",
		Products: []models.Product{
			{
				ID:           "gloss-lamination",
				Name:         "Gloss Lamination",
				Description:  "High-shine finish that enhances colors and provides protection",
				ImageURL:     "/images/services/gloss-lamination.jpg",
				Category:     "lamination",
				DisplayPrice: "From $2.99/sheet",
				Dimensions:   "Up to A0 size",
			},
			{
				ID:           "matte-lamination",
				Name:         "Matte Lamination",
				Description:  "Non-reflective finish perfect for professional documents",
				ImageURL:     "/images/services/matte-lamination.jpg",
				Category:     "lamination",
				DisplayPrice: "From $2.99/sheet",
				Dimensions:   "Up to A0 size",
			},
		},
	},
	{
		ID:          "digital-printing",
		Name:        "Digital Printing",
		Description: "High-quality digital printing services for all your needs",
		Icon:        "printing",
		Products: []models.Product{
			{
				ID:           "document-printing",
				Name:         "Document Printing",
				Description:  "Professional document printing in color or black & white",
				ImageURL:     "/images/services/document-printing.jpg",
				Category:     "digital-printing",
				DisplayPrice: "From $0.10/page",
				Dimensions:   "A4, A3, A2",
			},
			{
				ID:           "photo-printing",
				Name:         "Photo Printing",
				Description:  "High-resolution photo printing on premium paper",
				ImageURL:     "/images/services/photo-printing.jpg",
				Category:     "digital-printing",
				DisplayPrice: "From $0.99/print",
				Dimensions:   "Multiple sizes available",
			},
			{
				ID:           "large-format",
				Name:         "Large Format Printing",
				Description:  "Large scale printing for posters and displays",
				ImageURL:     "/images/services/large-format.jpg",
				Category:     "digital-printing",
				DisplayPrice: "Custom quote",
				Dimensions:   `Up to 60" wide`,
			},
		},
	},
	{
		ID:          "posters",
		Name:        "Posters",
		Description: "Eye-catching poster printing for any occasion",
		Icon:        "poster",
		Products: []models.Product{
			{
				ID:           "standard-posters",
				Name:         "Standard Posters",
				Description:  "High-quality posters on premium paper",
				ImageURL:     "/images/services/standard-posters.jpg",
				Category:     "posters",
				DisplayPrice: "From $19.99",
				Dimensions:   "A3, A2, A1, A0",
			},
			{
				ID:           "photo-posters",
				Name:         "Photo Posters",
				Description:  "Professional photo enlargements on photo paper",
				ImageURL:     "/images/services/photo-posters.jpg",
				Category:     "posters",
				DisplayPrice: "From $24.99",
				Dimensions:   "Multiple sizes available",
			},
		},
	},
	{
		ID:          "flyers",
		Name:        "Flyers",
		Description: "Eye-catching flyer printing for effective marketing",
		Icon:        "flyer",
		Products: []models.Product{
			{
				ID:          "standard-flyers",
				Name:        "Standard Flyers",
				Description: "High-quality flyers on premium paper",
				ImageURL:    "/images/services/flyers.jpg",
				Category:    "flyers",
				BasePrice:   price("29.99"),
				Customization: &models.Customization{
					HasDesign: true, DesignPrice: price("20"),
					HasColor: true, ColorOptions: colors, ColorPrice: price("5"),
					HasSizes: true,
					Sizes: []models.Size{
						size("a6", "A6", "105x148mm", "29.99"),
						size("a5", "A5", "148x210mm", "39.99"),
						size("a4", "A4", "210x297mm", "49.99"),
					},
				},
			},
			{
				ID:           "premium-flyers",
				Name:         "Premium Flyers",
				Description:  "Luxury flyers with special finishes",
				ImageURL:     "/images/services/premium-flyers.jpg",
				Category:     "flyers",
				DisplayPrice: "From $79.99/500",
				Dimensions:   "A6, A5, A4",
			},
		},
	},
	{
		ID:          "flags",
		Name:        "Flags",
		Description: "Custom flag printing for outdoor advertising",
		Icon:        "flag",
		Products: []models.Product{
			{
				ID:           "feather-flags",
				Name:         "Feather Flags",
				Description:  "Tall, eye-catching flags perfect for events",
				ImageURL:     "/images/services/feather-flags.jpg",
				Category:     "flags",
				DisplayPrice: "From $129",
				Dimensions:   "2.5m, 3.5m, 4.5m",
			},
			{
				ID:           "teardrop-flags",
				Name:         "Teardrop Flags",
				Description:  "Distinctive teardrop-shaped flags",
				ImageURL:     "/images/services/teardrop-flags.jpg",
				Category:     "flags",
				DisplayPrice: "From $139",
				Dimensions:   "2.5m, 3.5m, 4.5m",
			},
		},
	},
	{
		ID:          "business-cards",
		Name:        "Business Cards",
		Description: "Professional business card printing services",
		Icon:        "card",
		Products: []models.Product{
			{
				ID:          "standard-cards",
				Name:        "Standard Business Cards",
				Description: "Premium quality business cards on 350gsm card stock",
				ImageURL:    "/images/services/business-cards.jpg",
				Category:    "business-cards",
				BasePrice:   price("49.99"),
				Customization: &models.Customization{
					HasDesign: true, DesignPrice: price("25"),
					HasColor: true, ColorOptions: colors, ColorPrice: price("10"),
				},
			},
			{
				ID:           "premium-cards",
				Name:         "Premium Business Cards",
				Description:  "Luxury cards with special finishes (Spot UV, Gold Foil, etc.)",
				ImageURL:     "/images/services/premium-cards.jpg",
				Category:     "business-cards",
				DisplayPrice: "From $79.99/500",
				Dimensions:   "90x55mm",
			},
			{
				ID:           "square-cards",
				Name:         "Square Business Cards",
				Description:  "Unique square-format business cards",
				ImageURL:     "/images/services/square-cards.jpg",
				Category:     "business-cards",
				DisplayPrice: "From $59.99/500",
				Dimensions:   "55x55mm",
			},
		},
	},
}

// Categories returns a copy of the static catalog. Every product is marked
// available; availability is managed on the persisted copies.
func Categories() []models.Category {
	out := make([]models.Category, len(services))
	for i, c := range services {
		out[i] = c
		out[i].Products = make([]models.Product, len(c.Products))
		for j, p := range c.Products {
			p.Available = true
			p.Customization = copyCustomization(p.Customization)
			out[i].Products[j] = p
		}
	}
	return out
}

// Products flattens the catalog into a single list, in catalog order.
func Products(categories []models.Category) []models.Product {
	var out []models.Product
	for _, c := range categories {
		out = append(out, c.Products...)
	}
	return out
}

func copyCustomization(c *models.Customization) *models.Customization {
	if c == nil {
		return nil
	}
	cp := *c
	cp.ColorOptions = append([]string(nil), c.ColorOptions...)
	cp.Sizes = append([]models.Size(nil), c.Sizes...)
	return &cp
}
