package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunalog/internal/services"
)

func (handler *Handler) CalendarFeed(c *fiber.Ctx) error {
	count := services.DefaultProjectionCount
	if raw := c.Query("upcoming"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return apiError(c, fiber.StatusBadRequest, "invalid upcoming count")
		}
		count = services.ClampProjectionCount(parsed)
	}

	user := currentUser(c)
	cycles, err := handler.cycleService.Upcoming(user.ID, count, handler.location)
	if err != nil && !errors.Is(err, services.ErrInsufficientData) {
		return handler.respondServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="lunalog.ics"`)
	language := c.Query("lang")
	if language == "" {
		language = handler.translator.DetectFromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage))
	}
	labels := services.LocalizedCalendarLabels(handler.translator, language)
	return c.SendString(services.BuildCalendarFeed(cycles, labels, strconv.FormatUint(uint64(user.ID), 10), handler.now()))
}
