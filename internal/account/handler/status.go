package handler

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/stellarhive/account-service/internal/errors"
)

// statusFromError maps the service error taxonomy onto stable HTTP statuses.
func statusFromError(err error) int {
	var validationErrs validation.Errors

	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, apperrors.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrEmailAlreadyInUse):
		return fiber.StatusConflict
	case errors.Is(err, apperrors.ErrAlreadyVerified):
		return fiber.StatusGone
	case errors.Is(err, apperrors.ErrInactiveUser),
		errors.Is(err, apperrors.ErrIncorrectPassword):
		return fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrPasswordMismatch),
		errors.Is(err, apperrors.ErrSamePassword),
		errors.As(err, &validationErrs):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFromError(err)
	if status == fiber.StatusInternalServerError {
		// Store-level failures are not translated; no detail leaks out.
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
