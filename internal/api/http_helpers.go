package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunalog/internal/services"
	"go.uber.org/zap"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// respondServiceError maps service sentinels onto status codes. Anything
// unrecognised is logged and reported as a 500.
func (handler *Handler) respondServiceError(c *fiber.Ctx, err error) error {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": validation.Fields,
		})
	case errors.Is(err, services.ErrSettingsNotFound):
		return apiError(c, fiber.StatusNotFound, "settings not found")
	case errors.Is(err, services.ErrPeriodNotFound):
		return apiError(c, fiber.StatusNotFound, "period not found")
	case errors.Is(err, services.ErrUserNotFound):
		return apiError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, services.ErrPeriodOverlap):
		return apiError(c, fiber.StatusConflict, "period overlaps an existing log")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "weak password")
	case errors.Is(err, services.ErrPasswordUnchanged):
		return apiError(c, fiber.StatusBadRequest, "new password must differ from the current one")
	case errors.Is(err, services.ErrOnboardingAlreadyCompleted):
		return apiError(c, fiber.StatusConflict, "onboarding already completed")
	default:
		handler.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}
