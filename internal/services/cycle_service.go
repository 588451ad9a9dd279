package services

import (
	"time"

	"github.com/terraincognita07/lunalog/internal/models"
)

type CycleService struct {
	logs     PeriodLogRepository
	settings SettingsRepository
	now      func() time.Time
}

func NewCycleService(logs PeriodLogRepository, settings SettingsRepository) *CycleService {
	return &CycleService{logs: logs, settings: settings, now: time.Now}
}

// Summary returns ErrInsufficientData when the user has no logged periods.
func (service *CycleService) Summary(userID uint, location *time.Location) (CycleSummary, error) {
	logs, settings, err := service.load(userID)
	if err != nil {
		return CycleSummary{}, err
	}
	return BuildCycleSummary(logs, settings, service.now(), location)
}

// Upcoming projects count cycles forward from the user's last logged period.
func (service *CycleService) Upcoming(userID uint, count int, location *time.Location) ([]ProjectedCycle, error) {
	summary, err := service.Summary(userID, location)
	if err != nil {
		return nil, err
	}
	return ProjectUpcomingCycles(summary.LastPeriodStart, summary.CycleLength, count)
}

func (service *CycleService) load(userID uint) ([]models.PeriodLog, *models.UserSettings, error) {
	logs, err := service.logs.ListByUser(userID)
	if err != nil {
		return nil, nil, err
	}
	settings, found, err := service.settings.FindByUser(userID)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return logs, nil, nil
	}
	return logs, &settings, nil
}
