package services

import (
	"errors"
	"time"

	"github.com/terraincognita07/lunalog/internal/models"
)

var ErrPeriodNotFound = errors.New("period not found")

type PeriodLogRepository interface {
	ListByUser(userID uint) ([]models.PeriodLog, error)
	FindLatestByUser(userID uint) (models.PeriodLog, bool, error)
	Create(entry *models.PeriodLog) error
	DeleteByUserAndID(userID uint, id string) (bool, error)
}

type PeriodService struct {
	logs          PeriodLogRepository
	overlapPolicy OverlapPolicy
	now           func() time.Time
}

func NewPeriodService(logs PeriodLogRepository, overlapPolicy OverlapPolicy) *PeriodService {
	if overlapPolicy == "" {
		overlapPolicy = OverlapAllow
	}
	return &PeriodService{
		logs:          logs,
		overlapPolicy: overlapPolicy,
		now:           time.Now,
	}
}

func (service *PeriodService) List(userID uint, order SortOrder) ([]models.PeriodLog, error) {
	logs, err := service.logs.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return SortPeriodLogs(logs, order), nil
}

// Current returns the most recent period by start date; found is false when
// the user has not logged anything yet.
func (service *PeriodService) Current(userID uint) (models.PeriodLog, bool, error) {
	return service.logs.FindLatestByUser(userID)
}

func (service *PeriodService) Create(userID uint, input PeriodInput, location *time.Location) (models.PeriodLog, error) {
	entry, err := ValidatePeriodInput(input, service.now(), location)
	if err != nil {
		return models.PeriodLog{}, err
	}

	if service.overlapPolicy == OverlapReject {
		existing, err := service.logs.ListByUser(userID)
		if err != nil {
			return models.PeriodLog{}, err
		}
		if err := CheckOverlap(existing, entry, service.overlapPolicy); err != nil {
			return models.PeriodLog{}, err
		}
	}

	entry.UserID = userID
	entry.CreatedAt = service.now().UTC()
	if err := service.logs.Create(&entry); err != nil {
		return models.PeriodLog{}, err
	}
	return entry, nil
}

func (service *PeriodService) Delete(userID uint, id string) error {
	deleted, err := service.logs.DeleteByUserAndID(userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPeriodNotFound
	}
	return nil
}
