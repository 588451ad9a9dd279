package db

import (
	"time"

	"github.com/terraincognita07/lunalog/internal/models"
	"gorm.io/gorm"
)

type PeriodLogRepository struct {
	database *gorm.DB
}

func NewPeriodLogRepository(database *gorm.DB) *PeriodLogRepository {
	return &PeriodLogRepository{database: database}
}

func (repo *PeriodLogRepository) ListByUser(userID uint) ([]models.PeriodLog, error) {
	logs := make([]models.PeriodLog, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("start_date ASC, created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (repo *PeriodLogRepository) FindLatestByUser(userID uint) (models.PeriodLog, bool, error) {
	var entry models.PeriodLog
	err := repo.database.
		Where("user_id = ?", userID).
		Order("start_date DESC, created_at DESC").
		First(&entry).Error
	return entry, found(err), ignoreNotFound(err)
}

func (repo *PeriodLogRepository) Create(entry *models.PeriodLog) error {
	stored := storedPeriodLog(*entry)
	if err := repo.database.Create(&stored).Error; err != nil {
		return err
	}
	*entry = stored
	return nil
}

func (repo *PeriodLogRepository) DeleteByUserAndID(userID uint, id string) (bool, error) {
	result := repo.database.Where("user_id = ? AND id = ?", userID, id).Delete(&models.PeriodLog{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// storedPeriodLog pins both dates to UTC midnight of their calendar day so
// rows compare and sort as plain dates.
func storedPeriodLog(entry models.PeriodLog) models.PeriodLog {
	entry.StartDate = utcDay(entry.StartDate)
	entry.EndDate = utcDay(entry.EndDate)
	return entry
}

func utcDay(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
