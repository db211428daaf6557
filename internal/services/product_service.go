package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"printshop/internal/catalog"
	"printshop/internal/models"
	"printshop/internal/repositories"
)

// ImageStore stores product images and hands out viewing URLs.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body []byte) error
	PresignedURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	images ImageStore
	log    *zap.Logger
}

// NewProductService creates a new ProductService. images may be nil, in which
// case image uploads fail with ErrImageStoreDisabled.
func NewProductService(repo repositories.ProductRepository, images ImageStore, log *zap.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		images: images,
		log:    log,
	}
}

// Seed stores the static catalog products when the product store is empty.
func (s *ProductService) Seed(categories []models.Category) (int, error) {
	count, err := s.repo.Count()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	seeded := 0
	for _, p := range catalog.Products(categories) {
		p := p
		if err := s.repo.Create(&p); err != nil {
			return seeded, fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
		seeded++
	}
	s.log.Info("product catalog seeded", zap.Int("products", seeded))
	return seeded, nil
}

// Categories returns the storefront categories with their products taken from
// the product store, so admin edits and deletions show up. A category with no
// stored products is listed empty. Products whose category is not part of the
// static catalog are grouped under a category named after it.
func (s *ProductService) Categories() ([]models.Category, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	categories := catalog.Categories()
	index := make(map[string]int, len(categories))
	for i := range categories {
		categories[i].Products = nil
		index[categories[i].ID] = i
	}
	for _, p := range products {
		i, ok := index[p.Category]
		if !ok {
			categories = append(categories, models.Category{ID: p.Category, Name: p.Category})
			i = len(categories) - 1
			index[p.Category] = i
		}
		categories[i].Products = append(categories[i].Products, p)
	}
	return categories, nil
}

// GetCategory returns one category with its products.
func (s *ProductService) GetCategory(id string) (*models.Category, error) {
	categories, err := s.Categories()
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct validates and stores a new product. Catalog warnings are
// logged, not enforced.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := validateStruct(product); err != nil {
		return err
	}
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.logWarnings(*product)
	return nil
}

// UpdateProduct validates and replaces an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := validateStruct(product); err != nil {
		return err
	}
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.logWarnings(*product)
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

// SetAvailability marks a product as orderable or not.
func (s *ProductService) SetAvailability(id string, available bool) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	product.Available = available
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// UploadImage stores a product image and points the product at it. It
// returns the updated product and a presigned URL for viewing the image.
func (s *ProductService) UploadImage(ctx context.Context, id, filename, contentType string, body []byte) (*models.Product, string, error) {
	if s.images == nil {
		return nil, "", ErrImageStoreDisabled
	}
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, "", err
	}

	key := fmt.Sprintf("products/%s/%s%s", id, uuid.New().String(), strings.ToLower(filepath.Ext(filename)))
	if err := s.images.Upload(ctx, key, contentType, body); err != nil {
		return nil, "", err
	}

	previous := product.ImageURL
	product.ImageURL = key
	if err := s.repo.Update(product); err != nil {
		return nil, "", err
	}
	if strings.HasPrefix(previous, "products/") {
		if err := s.images.Delete(ctx, previous); err != nil {
			s.log.Warn("failed to delete replaced image", zap.String("key", previous), zap.Error(err))
		}
	}

	url, err := s.images.PresignedURL(ctx, key)
	if err != nil {
		return product, "", err
	}
	return product, url, nil
}

// LineItem prices a cart line for quantity units of a product with the given
// selection.
func (s *ProductService) LineItem(productID string, sel catalog.Selection, quantity int) (models.CartLineItem, error) {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return models.CartLineItem{}, err
	}
	if !product.Available {
		return models.CartLineItem{}, fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
	}
	unit, err := catalog.UnitPrice(*product, sel)
	if err != nil {
		return models.CartLineItem{}, err
	}
	return models.CartLineItem{
		ProductID:     product.ID,
		Name:          product.Name,
		ImageURL:      product.ImageURL,
		Quantity:      quantity,
		SelectedColor: sel.Color,
		SelectedSize:  sel.Size,
		WithDesign:    sel.WithDesign,
		UnitPrice:     unit,
		TotalPrice:    unit.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

func (s *ProductService) logWarnings(p models.Product) {
	for _, w := range catalog.ValidateProduct(p) {
		s.log.Warn("catalog warning", zap.String("product_id", p.ID), zap.String("warning", w))
	}
}
