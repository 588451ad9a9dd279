package models

import "time"

const (
	FlowNone   = "none"
	FlowLight  = "light"
	FlowMedium = "medium"
	FlowHeavy  = "heavy"
)

// PeriodLog is one logged bleeding episode. The same value is stored in the
// sqlite database (UserID set) and in the local period log store (UserID zero).
type PeriodLog struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_period_logs_user_start" json:"-"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_period_logs_user_start" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`
	Flow      string    `gorm:"not null;default:none" json:"flow,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
