package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunalog/internal/services"
)

func (handler *Handler) GetCycle(c *fiber.Ctx) error {
	summary, err := handler.cycleService.Summary(currentUser(c).ID, handler.location)
	if errors.Is(err, services.ErrInsufficientData) {
		return c.JSON(fiber.Map{"insufficient_data": true})
	}
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"insufficient_data":    false,
		"last_period_start":    services.FormatDay(summary.LastPeriodStart),
		"current_cycle_day":    summary.CurrentCycleDay,
		"cycle_length":         summary.CycleLength,
		"average_cycle_length": summary.AverageCycleLength,
		"observed_average":     summary.ObservedAverage,
		"fertile_window":       dayWindow(summary.FertileWindow),
		"ovulation_date":       services.FormatDay(summary.OvulationDate),
		"next_period":          dayWindow(summary.NextPeriod),
		"current_phase":        summary.CurrentPhase,
		"stale":                summary.Stale,
	})
}

func dayWindow(window services.PredictedWindow) fiber.Map {
	return fiber.Map{
		"start": services.FormatDay(window.Start),
		"end":   services.FormatDay(window.End),
	}
}
