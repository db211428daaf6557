package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"printshop/internal/models"
)

// prefixUpperBound closes a lexicographic range over every string that starts
// with a given prefix.
const prefixUpperBound = "\uf8ff"

// GORMStockRepository is a GORM implementation of StockRepository.
type GORMStockRepository struct {
	db *gorm.DB
}

// NewGORMStockRepository creates a new GORMStockRepository.
func NewGORMStockRepository(db *gorm.DB) *GORMStockRepository {
	return &GORMStockRepository{db: db}
}

func (r *GORMStockRepository) Create(item *models.StockItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create stock item: %w", err)
	}
	return nil
}

func (r *GORMStockRepository) GetAll() ([]models.StockItem, error) {
	var items []models.StockItem
	if err := r.db.Order("product_name").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock: %w", err)
	}
	return items, nil
}

func (r *GORMStockRepository) GetByID(id string) (*models.StockItem, error) {
	var item models.StockItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "stock item with ID %s", id)
	}
	return &item, nil
}

func (r *GORMStockRepository) Update(item *models.StockItem) error {
	res := r.db.Model(&models.StockItem{}).Where("id = ?", item.ID).Select("*").Omit("id").Updates(item)
	if res.Error != nil {
		return fmt.Errorf("failed to update stock item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("stock item with ID %s not found for update: %w", item.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMStockRepository) UpdateQuantity(id string, quantity int) error {
	res := r.db.Model(&models.StockItem{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update stock quantity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("stock item with ID %s not found for update: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMStockRepository) GetLow() ([]models.StockItem, error) {
	var items []models.StockItem
	if err := r.db.Where("quantity <= minimum_stock").Order("product_name").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	return items, nil
}

func (r *GORMStockRepository) FindByProductPrefix(prefix string) ([]models.StockItem, error) {
	var items []models.StockItem
	err := r.db.
		Where("product_id >= ? AND product_id <= ?", prefix, prefix+prefixUpperBound).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query stock for product %s: %w", prefix, err)
	}
	return items, nil
}

// GORMStockOrderRepository is a GORM implementation of StockOrderRepository.
type GORMStockOrderRepository struct {
	db *gorm.DB
}

// NewGORMStockOrderRepository creates a new GORMStockOrderRepository.
func NewGORMStockOrderRepository(db *gorm.DB) *GORMStockOrderRepository {
	return &GORMStockOrderRepository{db: db}
}

func (r *GORMStockOrderRepository) Create(order *models.StockOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create stock order: %w", err)
	}
	return nil
}

func (r *GORMStockOrderRepository) Receive(order *models.StockOrder, at time.Time) (*models.StockItem, error) {
	generatedID := order.ID == ""
	if generatedID {
		order.ID = uuid.New().String()
	}

	var item models.StockItem
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", order.StockItemID).Error; err != nil {
			return notFound(err, "stock item with ID %s", order.StockItemID)
		}
		err := tx.Model(&models.StockItem{}).Where("id = ?", item.ID).Updates(map[string]any{
			"quantity":        gorm.Expr("quantity + ?", order.Quantity),
			"last_order_date": at,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to replenish stock item %s: %w", item.ID, err)
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to record stock order: %w", err)
		}
		return tx.First(&item, "id = ?", item.ID).Error
	})
	if err != nil {
		if generatedID {
			order.ID = ""
		}
		return nil, err
	}
	return &item, nil
}

// GetAll lists stock orders, most recent first.
func (r *GORMStockOrderRepository) GetAll() ([]models.StockOrder, error) {
	var orders []models.StockOrder
	if err := r.db.Order("order_date desc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock orders: %w", err)
	}
	return orders, nil
}

// GORMClientRepository is a GORM implementation of ClientRepository.
type GORMClientRepository struct {
	db *gorm.DB
}

// NewGORMClientRepository creates a new GORMClientRepository.
func NewGORMClientRepository(db *gorm.DB) *GORMClientRepository {
	return &GORMClientRepository{db: db}
}

func (r *GORMClientRepository) Create(client *models.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	if err := r.db.Create(client).Error; err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *GORMClientRepository) GetAll() ([]models.Client, error) {
	var clients []models.Client
	if err := r.db.Order("name").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (r *GORMClientRepository) GetByID(id string) (*models.Client, error) {
	var client models.Client
	if err := r.db.First(&client, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "client with ID %s", id)
	}
	return &client, nil
}

func (r *GORMClientRepository) Update(client *models.Client) error {
	res := r.db.Model(&models.Client{}).Where("id = ?", client.ID).
		Select("name", "email", "phone", "business_address", "notes", "updated_at").
		Updates(client)
	if res.Error != nil {
		return fmt.Errorf("failed to update client: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("client with ID %s not found for update: %w", client.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMClientRepository) Delete(id string) error {
	res := r.db.Delete(&models.Client{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete client: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("client with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
