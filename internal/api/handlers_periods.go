package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunalog/internal/services"
)

func (handler *Handler) ListPeriods(c *fiber.Ctx) error {
	order, ok := services.ParseSortOrder(strings.ToLower(strings.TrimSpace(c.Query("sort"))))
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid sort order")
	}

	logs, err := handler.periodService.List(currentUser(c).ID, order)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(logs)
}

// CurrentPeriod answers null when nothing has been logged.
func (handler *Handler) CurrentPeriod(c *fiber.Ctx) error {
	entry, found, err := handler.periodService.Current(currentUser(c).ID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	if !found {
		return c.JSON(nil)
	}
	return c.JSON(entry)
}

func (handler *Handler) CreatePeriod(c *fiber.Ctx) error {
	input := services.PeriodInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	entry, err := handler.periodService.Create(currentUser(c).ID, input, handler.location)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) DeletePeriod(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid id")
	}
	if err := handler.periodService.Delete(currentUser(c).ID, id); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
