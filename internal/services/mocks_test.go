package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"printshop/internal/models"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockAdminUserRepository is a mock implementation of repositories.AdminUserRepository
type MockAdminUserRepository struct {
	mock.Mock
}

func (m *MockAdminUserRepository) Create(admin *models.AdminUser) error {
	args := m.Called(admin)
	return args.Error(0)
}

func (m *MockAdminUserRepository) GetAll() ([]models.AdminUser, error) {
	args := m.Called()
	return args.Get(0).([]models.AdminUser), args.Error(1)
}

func (m *MockAdminUserRepository) GetByEmail(email string) (*models.AdminUser, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminUser), args.Error(1)
}

func (m *MockAdminUserRepository) UpdateRole(id string, role models.AdminRole) (*models.AdminUser, error) {
	args := m.Called(id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminUser), args.Error(1)
}

func (m *MockAdminUserRepository) TouchLastLogin(email string, at time.Time) error {
	args := m.Called(email, at)
	return args.Error(0)
}

func (m *MockAdminUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockEventPublisher records published events.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishJSON(routingKey string, v any) error {
	args := m.Called(routingKey, v)
	return args.Error(0)
}

// MockImageStore is a mock implementation of services.ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, key, contentType string, body []byte) error {
	args := m.Called(ctx, key, contentType, body)
	return args.Error(0)
}

func (m *MockImageStore) PresignedURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockStockRepository is a mock implementation of repositories.StockRepository
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) Create(item *models.StockItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockStockRepository) GetAll() ([]models.StockItem, error) {
	args := m.Called()
	return args.Get(0).([]models.StockItem), args.Error(1)
}

func (m *MockStockRepository) GetByID(id string) (*models.StockItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockItem), args.Error(1)
}

func (m *MockStockRepository) Update(item *models.StockItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockStockRepository) UpdateQuantity(id string, quantity int) error {
	args := m.Called(id, quantity)
	return args.Error(0)
}

func (m *MockStockRepository) GetLow() ([]models.StockItem, error) {
	args := m.Called()
	return args.Get(0).([]models.StockItem), args.Error(1)
}

func (m *MockStockRepository) FindByProductPrefix(prefix string) ([]models.StockItem, error) {
	args := m.Called(prefix)
	return args.Get(0).([]models.StockItem), args.Error(1)
}

// MockStockOrderRepository is a mock implementation of repositories.StockOrderRepository
type MockStockOrderRepository struct {
	mock.Mock
}

func (m *MockStockOrderRepository) Create(order *models.StockOrder) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockStockOrderRepository) GetAll() ([]models.StockOrder, error) {
	args := m.Called()
	return args.Get(0).([]models.StockOrder), args.Error(1)
}

func (m *MockStockOrderRepository) Receive(order *models.StockOrder, at time.Time) (*models.StockItem, error) {
	args := m.Called(order, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockItem), args.Error(1)
}

// MockClientRepository is a mock implementation of repositories.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(client *models.Client) error {
	args := m.Called(client)
	return args.Error(0)
}

func (m *MockClientRepository) GetAll() ([]models.Client, error) {
	args := m.Called()
	return args.Get(0).([]models.Client), args.Error(1)
}

func (m *MockClientRepository) GetByID(id string) (*models.Client, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) Update(client *models.Client) error {
	args := m.Called(client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}
