package handlers

import (
	"errors"
	"fmt"

	"bbshop/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// statusFromError maps domain errors onto HTTP status codes. Anything not
// in the taxonomy is a 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrInvalidArgument),
		errors.Is(err, models.ErrInsufficientStock):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// errorResponse writes a JSON error body for a failed service call.
// Internal errors only carry the generic message; their details stay in
// the logs.
func errorResponse(c *fiber.Ctx, err error, message string) error {
	status := statusFromError(err)
	body := fiber.Map{"message": message}
	if status != fiber.StatusInternalServerError {
		body["error"] = err.Error()
	}
	return c.Status(status).JSON(body)
}

// validationResponse writes a 400 with a per-field breakdown of validator
// failures.
func validationResponse(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"error":   err.Error(),
	})
}
