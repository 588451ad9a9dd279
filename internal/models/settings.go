package models

const (
	DefaultCycleLength        = 28
	DefaultPeriodLength       = 5
	DefaultReminderDaysBefore = 2
)

const (
	TrackingGoalGeneral       = "general"
	TrackingGoalConception    = "conception"
	TrackingGoalContraception = "contraception"
	TrackingGoalHealth        = "health"
)

// UserSettings holds the per-user cycle baseline captured during onboarding.
// The averages are only used as a fallback until enough periods are logged.
type UserSettings struct {
	ID                  uint   `gorm:"primaryKey" json:"-"`
	UserID              uint   `gorm:"not null;uniqueIndex" json:"-"`
	AverageCycleLength  int    `gorm:"not null;default:28" json:"average_cycle_length"`
	AveragePeriodLength int    `gorm:"not null;default:5" json:"average_period_length"`
	ReminderDaysBefore  int    `gorm:"not null;default:2" json:"reminder_days_before"`
	EnableNotifications bool   `gorm:"not null;default:false" json:"enable_notifications"`
	TrackingGoal        string `gorm:"not null;default:general" json:"tracking_goal"`
}

func ValidTrackingGoals() []string {
	return []string{
		TrackingGoalGeneral,
		TrackingGoalConception,
		TrackingGoalContraception,
		TrackingGoalHealth,
	}
}
