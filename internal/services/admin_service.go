package services

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"printshop/internal/models"
	"printshop/internal/repositories"
)

// AdminService manages back-office access grants.
type AdminService struct {
	repo repositories.AdminUserRepository
	log  *zap.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(repo repositories.AdminUserRepository, log *zap.Logger) *AdminService {
	return &AdminService{repo: repo, log: log}
}

func (s *AdminService) ListAdmins() ([]models.AdminUser, error) {
	return s.repo.GetAll()
}

// GrantAdmin gives email back-office access with role.
func (s *AdminService) GrantAdmin(email string, role models.AdminRole) (*models.AdminUser, error) {
	admin := &models.AdminUser{
		Email:     strings.TrimSpace(email),
		Role:      role,
		CreatedAt: time.Now(),
	}
	if err := validateStruct(admin); err != nil {
		return nil, err
	}
	if err := s.repo.Create(admin); err != nil {
		return nil, fmt.Errorf("failed to grant admin access: %w", err)
	}
	s.log.Info("admin access granted", zap.String("email", admin.Email), zap.String("role", string(role)))
	return admin, nil
}

// UpdateRole changes the role of an existing grant.
func (s *AdminService) UpdateRole(id string, role models.AdminRole) (*models.AdminUser, error) {
	if role != models.AdminRoleAdmin && role != models.AdminRoleEditor {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	return s.repo.UpdateRole(id, role)
}

// RevokeAdmin deletes a grant.
func (s *AdminService) RevokeAdmin(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.log.Info("admin access revoked", zap.String("admin_id", id))
	return nil
}
