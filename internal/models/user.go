package models

import "time"

// User represents a storefront account.
type User struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email       string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	DisplayName string    `json:"displayName,omitempty" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	Password    string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash, never serialized
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AdminRole is the back-office role of an admin user.
type AdminRole string

const (
	AdminRoleAdmin  AdminRole = "admin"
	AdminRoleEditor AdminRole = "editor"
)

// AdminUser grants back-office access to an email address.
type AdminUser struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Role      AdminRole  `json:"role" gorm:"type:varchar(20)" validate:"required,oneof=admin editor"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}
