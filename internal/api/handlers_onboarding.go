package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunalog/internal/services"
)

func (handler *Handler) CompleteOnboarding(c *fiber.Ctx) error {
	user := currentUser(c)
	input := services.OnboardingInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	result, err := handler.onboardingService.Complete(user, input, handler.location)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(result)
}
