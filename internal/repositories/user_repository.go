package repositories

import (
	"time"

	"printshop/internal/models"
)

// UserRepository defines the interface for storefront account storage.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}

// AdminUserRepository defines the interface for back-office access grants.
type AdminUserRepository interface {
	Create(admin *models.AdminUser) error
	GetAll() ([]models.AdminUser, error)
	GetByEmail(email string) (*models.AdminUser, error)
	UpdateRole(id string, role models.AdminRole) (*models.AdminUser, error)
	TouchLastLogin(email string, at time.Time) error
	Delete(id string) error
}
