package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"printshop/internal/models"
	"printshop/internal/repositories"
)

// Claims are the JWT claims issued on sign-in.
type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.StandardClaims
}

// AuthConfig configures AuthService.
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

// AuthService handles sign-up, sign-in and token validation.
type AuthService struct {
	userRepo  repositories.UserRepository
	adminRepo repositories.AdminUserRepository
	cfg       AuthConfig
	jwtSecret []byte
	log       *zap.Logger
	now       func() time.Time

	mu      sync.RWMutex
	revoked map[string]time.Time // token -> expiry
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, adminRepo repositories.AdminUserRepository, cfg AuthConfig, log *zap.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:  userRepo,
		adminRepo: adminRepo,
		cfg:       cfg,
		jwtSecret: []byte(cfg.JWTSecret),
		log:       log,
		now:       time.Now,
		revoked:   make(map[string]time.Time),
	}
}

// SignUp registers a new account and signs it in.
func (s *AuthService) SignUp(email, password, displayName string) (*models.User, string, error) {
	user := &models.User{
		Email:       strings.TrimSpace(email),
		Password:    password,
		DisplayName: strings.TrimSpace(displayName),
	}
	if err := validateStruct(user); err != nil {
		return nil, "", err
	}

	if _, err := s.userRepo.GetByEmail(user.Email); err == nil {
		return nil, "", fmt.Errorf("%w: %s", ErrEmailTaken, user.Email)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}
	s.log.Info("user registered", zap.String("user_id", user.ID))

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SignIn authenticates by email and password and returns a signed token.
func (s *AuthService) SignIn(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		// Unknown email and wrong password look the same to the caller.
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	if err := s.adminRepo.TouchLastLogin(user.Email, s.now()); err != nil {
		s.log.Warn("failed to record admin login", zap.String("user_id", user.ID), zap.Error(err))
	}
	return user, token, nil
}

// SignOut revokes tokenString until it would have expired anyway.
func (s *AuthService) SignOut(tokenString string) error {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for t, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, t)
		}
	}
	s.revoked[tokenString] = time.Unix(claims.ExpiresAt, 0)
	return nil
}

// ValidateToken parses and validates a JWT token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	s.mu.RLock()
	_, revoked := s.revoked[tokenString]
	s.mu.RUnlock()
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// IsAdmin reports whether email has back-office access: it is the configured
// admin email or it holds an admin_users grant.
func (s *AuthService) IsAdmin(email string) bool {
	if email == "" {
		return false
	}
	if s.cfg.AdminEmail != "" && strings.EqualFold(email, s.cfg.AdminEmail) {
		return true
	}
	_, err := s.adminRepo.GetByEmail(email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		s.log.Warn("admin lookup failed", zap.String("email", email), zap.Error(err))
	}
	return err == nil
}

// UserByID returns an account by its ID.
func (s *AuthService) UserByID(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// EnsureAdmin creates the configured admin account and its admin grant when
// missing. Without a configured admin email it does nothing.
func (s *AuthService) EnsureAdmin() error {
	if s.cfg.AdminEmail == "" {
		return nil
	}

	if _, err := s.userRepo.GetByEmail(s.cfg.AdminEmail); errors.Is(err, repositories.ErrNotFound) {
		if _, _, err := s.SignUp(s.cfg.AdminEmail, s.cfg.AdminPassword, "Administrator"); err != nil {
			return fmt.Errorf("failed to create admin account: %w", err)
		}
		s.log.Info("admin account created", zap.String("email", s.cfg.AdminEmail))
	} else if err != nil {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	if _, err := s.adminRepo.GetByEmail(s.cfg.AdminEmail); errors.Is(err, repositories.ErrNotFound) {
		grant := &models.AdminUser{Email: s.cfg.AdminEmail, Role: models.AdminRoleAdmin, CreatedAt: s.now()}
		if err := s.adminRepo.Create(grant); err != nil {
			return fmt.Errorf("failed to grant admin role: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to look up admin grant: %w", err)
	}
	return nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: s.IsAdmin(user.Email),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(s.cfg.TokenTTL).Unix(),
			IssuedAt:  now.Unix(),
			Id:        uuid.New().String(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
