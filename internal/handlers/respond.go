package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"printshop/internal/cart"
	"printshop/internal/catalog"
	"printshop/internal/checkout"
	"printshop/internal/repositories"
	"printshop/internal/services"
	"printshop/pkg/storage"
)

var validate = validator.New()

// errorStatus maps service and repository errors to HTTP status codes.
func errorStatus(err error) int {
	var uploadErr *storage.UploadError
	switch {
	case errors.Is(err, repositories.ErrNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, cart.ErrItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrTokenRevoked):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrProductUnavailable):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrImageStoreDisabled):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, checkout.ErrSubmitFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, checkout.ErrCartEmpty),
		errors.Is(err, checkout.ErrDetailsIncomplete),
		errors.Is(err, checkout.ErrPickupRequired),
		errors.Is(err, checkout.ErrPickupInPast),
		errors.Is(err, checkout.ErrNoPreviousStep),
		errors.Is(err, checkout.ErrNotAtConfirm),
		errors.Is(err, checkout.ErrAlreadySubmitted):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidPrice),
		errors.Is(err, cart.ErrMissingProduct),
		errors.Is(err, catalog.ErrNotPurchasable),
		errors.Is(err, catalog.ErrSizeRequired),
		errors.Is(err, catalog.ErrUnknownSize),
		errors.Is(err, catalog.ErrUnknownColor),
		errors.Is(err, catalog.ErrDesignNotOffered),
		errors.As(err, &uploadErr):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// fail answers with {"message", "error"} and a status derived from err.
// Server-side failures are logged.
func fail(c *fiber.Ctx, log *zap.Logger, message string, err error) error {
	status := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Error(message, zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// parseAndValidate decodes the request body into req and runs its validator
// tags. On failure the response has already been written and handled is true.
func parseAndValidate(c *fiber.Ctx, req any) (handled bool, err error) {
	if err := c.BodyParser(req); err != nil {
		return true, badRequest(c, err)
	}
	if err := validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return true, badRequest(c, err)
		}
		errorMessages := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return true, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return false, nil
}
