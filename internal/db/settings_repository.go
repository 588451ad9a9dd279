package db

import (
	"github.com/terraincognita07/lunalog/internal/models"
	"gorm.io/gorm"
)

type SettingsRepository struct {
	database *gorm.DB
}

func NewSettingsRepository(database *gorm.DB) *SettingsRepository {
	return &SettingsRepository{database: database}
}

func (repo *SettingsRepository) FindByUser(userID uint) (models.UserSettings, bool, error) {
	var settings models.UserSettings
	err := repo.database.Where("user_id = ?", userID).First(&settings).Error
	return settings, found(err), ignoreNotFound(err)
}

func (repo *SettingsRepository) Save(settings *models.UserSettings) error {
	return repo.database.Save(settings).Error
}

func (repo *SettingsRepository) ListWithNotificationsEnabled() ([]models.UserSettings, error) {
	settings := make([]models.UserSettings, 0)
	if err := repo.database.
		Where("enable_notifications = ?", true).
		Order("user_id ASC").
		Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
