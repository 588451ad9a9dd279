package services

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/terraincognita07/lunalog/internal/models"
)

const (
	MinCycleLength        = 20
	MaxCycleLength        = 45
	MinPeriodLength       = 1
	MaxPeriodLength       = 10
	MinReminderDaysBefore = 1
	MaxReminderDaysBefore = 7

	lastPeriodLookbackMonths = 3
)

type CycleSettingsInput struct {
	AverageCycleLength  int    `json:"average_cycle_length" form:"average_cycle_length"`
	AveragePeriodLength int    `json:"average_period_length" form:"average_period_length"`
	ReminderDaysBefore  int    `json:"reminder_days_before" form:"reminder_days_before"`
	EnableNotifications bool   `json:"enable_notifications" form:"enable_notifications"`
	TrackingGoal        string `json:"tracking_goal" form:"tracking_goal"`
}

type OnboardingInput struct {
	CycleSettingsInput
	LastPeriodDate string `json:"last_period_date" form:"last_period_date"`
}

type OnboardingDraft struct {
	Settings       models.UserSettings
	LastPeriodDate *time.Time
}

func IsValidCycleLength(value int) bool {
	return value >= MinCycleLength && value <= MaxCycleLength
}

func IsValidPeriodLength(value int) bool {
	return value >= MinPeriodLength && value <= MaxPeriodLength
}

func IsValidReminderDaysBefore(value int) bool {
	return value >= MinReminderDaysBefore && value <= MaxReminderDaysBefore
}

func IsValidTrackingGoal(value string) bool {
	return slices.Contains(models.ValidTrackingGoals(), value)
}

// ValidateCycleSettings checks the fields shared by onboarding and the
// settings screen. An empty tracking goal is accepted when requireGoal is false.
func ValidateCycleSettings(input CycleSettingsInput, requireGoal bool) (models.UserSettings, error) {
	validation := &ValidationError{}
	if !IsValidCycleLength(input.AverageCycleLength) {
		validation.add("average_cycle_length", "must be between 20 and 45 days")
	}
	if !IsValidPeriodLength(input.AveragePeriodLength) {
		validation.add("average_period_length", "must be between 1 and 10 days")
	}
	if !IsValidReminderDaysBefore(input.ReminderDaysBefore) {
		validation.add("reminder_days_before", "must be between 1 and 7 days")
	}

	goal := strings.ToLower(strings.TrimSpace(input.TrackingGoal))
	switch {
	case goal == "" && !requireGoal:
	case !IsValidTrackingGoal(goal):
		validation.add("tracking_goal", "unknown tracking goal")
	}

	if err := validation.orNil(); err != nil {
		return models.UserSettings{}, err
	}
	return models.UserSettings{
		AverageCycleLength:  input.AverageCycleLength,
		AveragePeriodLength: input.AveragePeriodLength,
		ReminderDaysBefore:  input.ReminderDaysBefore,
		EnableNotifications: input.EnableNotifications,
		TrackingGoal:        goal,
	}, nil
}

func ValidateOnboarding(input OnboardingInput, now time.Time, location *time.Location) (OnboardingDraft, error) {
	validation := &ValidationError{}
	settings, err := ValidateCycleSettings(input.CycleSettingsInput, true)
	if err != nil {
		var settingsErr *ValidationError
		if !errors.As(err, &settingsErr) {
			return OnboardingDraft{}, err
		}
		validation = settingsErr
	}

	draft := OnboardingDraft{Settings: settings}
	if strings.TrimSpace(input.LastPeriodDate) != "" {
		day, parseErr := ParseDay(input.LastPeriodDate, location)
		if parseErr != nil {
			validation.add("last_period_date", "please select a valid date")
		} else {
			minDate, today := LastPeriodDateBounds(now, location)
			if day.Before(minDate) || day.After(today) {
				validation.add("last_period_date", "must be within the last three months and not in the future")
			} else {
				draft.LastPeriodDate = &day
			}
		}
	}

	if err := validation.orNil(); err != nil {
		return OnboardingDraft{}, err
	}
	return draft, nil
}

func LastPeriodDateBounds(now time.Time, location *time.Location) (time.Time, time.Time) {
	today := DateAtLocation(now, location)
	return today.AddDate(0, -lastPeriodLookbackMonths, 0), today
}
