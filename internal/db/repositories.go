package db

import "gorm.io/gorm"

type Repositories struct {
	Users    *UserRepository
	Settings *SettingsRepository
	Periods  *PeriodLogRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(database),
		Settings: NewSettingsRepository(database),
		Periods:  NewPeriodLogRepository(database),
	}
}
