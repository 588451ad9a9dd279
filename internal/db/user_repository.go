package db

import (
	"errors"

	"github.com/terraincognita07/lunalog/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(userID uint) (models.User, bool, error) {
	var user models.User
	err := repo.database.First(&user, userID).Error
	return user, found(err), ignoreNotFound(err)
}

func (repo *UserRepository) FindByNormalizedEmail(email string) (models.User, bool, error) {
	var user models.User
	err := repo.database.Where("lower(trim(email)) = ?", email).First(&user).Error
	return user, found(err), ignoreNotFound(err)
}

func (repo *UserRepository) ExistsByNormalizedEmail(email string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.User{}).
		Where("lower(trim(email)) = ?", email).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.database.Create(user).Error
}

func (repo *UserRepository) UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"password_hash":        passwordHash,
		"must_change_password": mustChangePassword,
	}).Error
}

func (repo *UserRepository) UpdateTelegramChatID(userID uint, chatID string) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Update("telegram_chat_id", chatID).Error
}

// CompleteOnboarding upserts settings, stores the optional first period and
// flags the user as onboarded in one transaction.
func (repo *UserRepository) CompleteOnboarding(userID uint, settings *models.UserSettings, period *models.PeriodLog) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		var existing models.UserSettings
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		switch {
		case err == nil:
			settings.ID = existing.ID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		settings.UserID = userID
		if err := tx.Save(settings).Error; err != nil {
			return err
		}

		if period != nil {
			period.UserID = userID
			stored := storedPeriodLog(*period)
			if err := tx.Create(&stored).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.User{}).Where("id = ?", userID).Update("onboarding_completed", true).Error
	})
}

func found(err error) bool {
	return err == nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
