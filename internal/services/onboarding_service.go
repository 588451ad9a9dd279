package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/lunalog/internal/models"
)

var ErrOnboardingAlreadyCompleted = errors.New("onboarding already completed")

type OnboardingRepository interface {
	// CompleteOnboarding upserts settings, inserts period when non-nil and
	// marks the user onboarded, all in one transaction.
	CompleteOnboarding(userID uint, settings *models.UserSettings, period *models.PeriodLog) error
}

type OnboardingResult struct {
	Settings models.UserSettings `json:"settings"`
	Period   *models.PeriodLog   `json:"period"`
}

type OnboardingService struct {
	users OnboardingRepository
	now   func() time.Time
}

func NewOnboardingService(users OnboardingRepository) *OnboardingService {
	return &OnboardingService{users: users, now: time.Now}
}

func (service *OnboardingService) Complete(user *models.User, input OnboardingInput, location *time.Location) (OnboardingResult, error) {
	if user == nil {
		return OnboardingResult{}, ErrUserNotFound
	}
	if user.OnboardingCompleted {
		return OnboardingResult{}, ErrOnboardingAlreadyCompleted
	}

	now := service.now()
	draft, err := ValidateOnboarding(input, now, location)
	if err != nil {
		return OnboardingResult{}, err
	}

	settings := draft.Settings
	settings.UserID = user.ID

	var period *models.PeriodLog
	if draft.LastPeriodDate != nil {
		start := *draft.LastPeriodDate
		period = &models.PeriodLog{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			StartDate: start,
			EndDate:   start.AddDate(0, 0, settings.AveragePeriodLength-1),
			Flow:      models.FlowNone,
			CreatedAt: now.UTC(),
		}
	}

	if err := service.users.CompleteOnboarding(user.ID, &settings, period); err != nil {
		return OnboardingResult{}, err
	}
	user.OnboardingCompleted = true
	return OnboardingResult{Settings: settings, Period: period}, nil
}
