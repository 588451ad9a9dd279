package services

import (
	"errors"

	"github.com/terraincognita07/lunalog/internal/models"
)

var ErrSettingsNotFound = errors.New("settings not found")

type SettingsRepository interface {
	FindByUser(userID uint) (models.UserSettings, bool, error)
	Save(settings *models.UserSettings) error
	ListWithNotificationsEnabled() ([]models.UserSettings, error)
}

type SettingsService struct {
	settings SettingsRepository
}

func NewSettingsService(settings SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// Load returns ErrSettingsNotFound for users that never finished onboarding.
func (service *SettingsService) Load(userID uint) (models.UserSettings, error) {
	settings, found, err := service.settings.FindByUser(userID)
	if err != nil {
		return models.UserSettings{}, err
	}
	if !found {
		return models.UserSettings{}, ErrSettingsNotFound
	}
	return settings, nil
}

// Update validates input and overwrites everything but the tracking goal.
func (service *SettingsService) Update(userID uint, input CycleSettingsInput) (models.UserSettings, error) {
	current, err := service.Load(userID)
	if err != nil {
		return models.UserSettings{}, err
	}

	validated, err := ValidateCycleSettings(input, false)
	if err != nil {
		return models.UserSettings{}, err
	}

	current.AverageCycleLength = validated.AverageCycleLength
	current.AveragePeriodLength = validated.AveragePeriodLength
	current.ReminderDaysBefore = validated.ReminderDaysBefore
	current.EnableNotifications = validated.EnableNotifications
	if err := service.settings.Save(&current); err != nil {
		return models.UserSettings{}, err
	}
	return current, nil
}
