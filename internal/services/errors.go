package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrProductUnavailable = errors.New("product is not available")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrImageStoreDisabled = errors.New("image uploads are not configured")
)

var validate = validator.New()

// validateStruct runs the validator tags of v and wraps failures in
// ErrInvalidInput.
func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}
