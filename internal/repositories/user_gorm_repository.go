package repositories

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"printshop/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{db: db}
}

// Create inserts a new user. Emails are stored lower-cased.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = strings.ToLower(user.Email)
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail finds a user by email, case-insensitively.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, notFound(err, "user with email %s", email)
	}
	return &user, nil
}

// GetByID finds a user by ID.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user with ID %s", id)
	}
	return &user, nil
}

// GORMAdminUserRepository is a GORM implementation of AdminUserRepository.
type GORMAdminUserRepository struct {
	db *gorm.DB
}

// NewGORMAdminUserRepository creates a new GORMAdminUserRepository.
func NewGORMAdminUserRepository(db *gorm.DB) *GORMAdminUserRepository {
	return &GORMAdminUserRepository{db: db}
}

func (r *GORMAdminUserRepository) Create(admin *models.AdminUser) error {
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}
	admin.Email = strings.ToLower(admin.Email)
	if err := r.db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}

func (r *GORMAdminUserRepository) GetAll() ([]models.AdminUser, error) {
	var admins []models.AdminUser
	if err := r.db.Order("email").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("failed to list admin users: %w", err)
	}
	return admins, nil
}

func (r *GORMAdminUserRepository) GetByEmail(email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.Where("email = ?", strings.ToLower(email)).First(&admin).Error; err != nil {
		return nil, notFound(err, "admin user with email %s", email)
	}
	return &admin, nil
}

func (r *GORMAdminUserRepository) UpdateRole(id string, role models.AdminRole) (*models.AdminUser, error) {
	res := r.db.Model(&models.AdminUser{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update admin role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("admin user with ID %s not found for update: %w", id, ErrNotFound)
	}
	var admin models.AdminUser
	if err := r.db.First(&admin, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "admin user with ID %s", id)
	}
	return &admin, nil
}

// TouchLastLogin records a sign-in. Emails without a grant are ignored.
func (r *GORMAdminUserRepository) TouchLastLogin(email string, at time.Time) error {
	err := r.db.Model(&models.AdminUser{}).
		Where("email = ?", strings.ToLower(email)).
		Update("last_login", at).Error
	if err != nil {
		return fmt.Errorf("failed to record admin login: %w", err)
	}
	return nil
}

func (r *GORMAdminUserRepository) Delete(id string) error {
	res := r.db.Delete(&models.AdminUser{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete admin user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("admin user with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
