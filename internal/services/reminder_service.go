package services

import (
	"context"
	"fmt"
	"time"

	"github.com/terraincognita07/lunalog/internal/i18n"
	"github.com/terraincognita07/lunalog/internal/models"
)

const (
	ReminderPeriod    = "period"
	ReminderFertility = "fertility"
)

type Reminder struct {
	UserID  uint
	ChatID  string
	Kind    string
	Date    time.Time
	Message string
}

// Key identifies a reminder for once-per-day delivery.
func (reminder Reminder) Key() string {
	return fmt.Sprintf("%s:%d:%s", reminder.Kind, reminder.UserID, FormatDay(reminder.Date))
}

type ReminderSettingsSource interface {
	ListWithNotificationsEnabled() ([]models.UserSettings, error)
}

type ReminderUserSource interface {
	FindByID(userID uint) (models.User, bool, error)
}

type ReminderPeriodSource interface {
	ListByUser(userID uint) ([]models.PeriodLog, error)
}

type ReminderService struct {
	settings ReminderSettingsSource
	users    ReminderUserSource
	logs     ReminderPeriodSource
	location *time.Location

	translator Translator
	language   string
}

func NewReminderService(settings ReminderSettingsSource, users ReminderUserSource, logs ReminderPeriodSource, location *time.Location) *ReminderService {
	if location == nil {
		location = time.Local
	}
	return &ReminderService{
		settings:   settings,
		users:      users,
		logs:       logs,
		location:   location,
		translator: i18n.Default(),
		language:   i18n.LangEN,
	}
}

// WithLanguage switches reminder texts to language.
func (service *ReminderService) WithLanguage(translator Translator, language string) *ReminderService {
	if translator != nil {
		service.translator = translator
	}
	service.language = language
	return service
}

// DueReminders lists the reminders that should go out on the calendar day of
// now. Users without logged periods are skipped.
func (service *ReminderService) DueReminders(ctx context.Context, now time.Time) ([]Reminder, error) {
	enabled, err := service.settings.ListWithNotificationsEnabled()
	if err != nil {
		return nil, fmt.Errorf("list reminder settings: %w", err)
	}

	today := DateAtLocation(now, service.location)
	reminders := make([]Reminder, 0)
	for index := range enabled {
		if err := ctx.Err(); err != nil {
			return reminders, err
		}
		settings := enabled[index]

		user, found, err := service.users.FindByID(settings.UserID)
		if err != nil {
			return reminders, fmt.Errorf("load reminder user %d: %w", settings.UserID, err)
		}
		if !found {
			continue
		}
		logs, err := service.logs.ListByUser(settings.UserID)
		if err != nil {
			return reminders, fmt.Errorf("load reminder periods %d: %w", settings.UserID, err)
		}

		summary, err := BuildCycleSummary(logs, &settings, now, service.location)
		if err != nil {
			continue
		}
		reminders = append(reminders, service.remindersForDay(user, settings, summary, today)...)
	}
	return reminders, nil
}

func (service *ReminderService) remindersForDay(user models.User, settings models.UserSettings, summary CycleSummary, today time.Time) []Reminder {
	reminders := make([]Reminder, 0, 2)

	if CalendarDaysBetween(today, summary.NextPeriod.Start) == settings.ReminderDaysBefore {
		reminders = append(reminders, Reminder{
			UserID: user.ID,
			ChatID: user.TelegramChatID,
			Kind:   ReminderPeriod,
			Date:   today,
			Message: service.translator.Translatef(service.language, "reminder.period",
				settings.ReminderDaysBefore,
				FormatDay(summary.NextPeriod.Start),
			),
		})
	}

	tracksFertility := settings.TrackingGoal == models.TrackingGoalConception ||
		settings.TrackingGoal == models.TrackingGoalContraception
	if tracksFertility && sameCalendarDay(today, summary.FertileWindow.Start) {
		reminders = append(reminders, Reminder{
			UserID: user.ID,
			ChatID: user.TelegramChatID,
			Kind:   ReminderFertility,
			Date:   today,
			Message: service.translator.Translatef(service.language, "reminder.fertility",
				FormatDay(summary.FertileWindow.Start),
			),
		})
	}
	return reminders
}
