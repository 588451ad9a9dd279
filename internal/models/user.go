package models

import "time"

type User struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	Email               string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash        string    `gorm:"not null" json:"-"`
	DisplayName         string    `gorm:"not null;default:''" json:"display_name"`
	OnboardingCompleted bool      `gorm:"not null;default:false" json:"onboarding_completed"`
	MustChangePassword  bool      `gorm:"not null;default:false" json:"must_change_password"`
	TelegramChatID      string    `gorm:"not null;default:''" json:"-"`
	CreatedAt           time.Time `gorm:"not null" json:"created_at"`
}
