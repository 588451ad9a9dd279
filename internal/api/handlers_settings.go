package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunalog/internal/services"
)

func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	settings, err := handler.settingsService.Load(currentUser(c).ID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(settings)
}

type telegramChatInput struct {
	ChatID string `json:"telegram_chat_id" form:"telegram_chat_id"`
}

func (handler *Handler) UpdateTelegramChat(c *fiber.Ctx) error {
	input := telegramChatInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	chatID, err := handler.authService.SetTelegramChat(currentUser(c).ID, input.ChatID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"telegram_chat_id": chatID})
}

func (handler *Handler) UpdateSettings(c *fiber.Ctx) error {
	input := services.CycleSettingsInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	settings, err := handler.settingsService.Update(currentUser(c).ID, input)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(settings)
}
