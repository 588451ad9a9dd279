package services

import (
	"errors"
	"sync"

	"github.com/terraincognita07/lunalog/internal/models"
)

type stubStore struct {
	mu       sync.Mutex
	users    map[uint]models.User
	settings map[uint]models.UserSettings
	logs     []models.PeriodLog
	nextID   uint

	failWith error
}

func newStubStore() *stubStore {
	return &stubStore{
		users:    map[uint]models.User{},
		settings: map[uint]models.UserSettings{},
		nextID:   1,
	}
}

func (store *stubStore) ExistsByNormalizedEmail(email string) (bool, error) {
	_, found, err := store.FindByNormalizedEmail(email)
	return found, err
}

func (store *stubStore) FindByNormalizedEmail(email string) (models.User, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.failWith != nil {
		return models.User{}, false, store.failWith
	}
	for _, user := range store.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return models.User{}, false, nil
}

func (store *stubStore) FindByID(userID uint) (models.User, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.failWith != nil {
		return models.User{}, false, store.failWith
	}
	user, found := store.users[userID]
	return user, found, nil
}

func (store *stubStore) Create(user *models.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	user.ID = store.nextID
	store.nextID++
	store.users[user.ID] = *user
	return nil
}

func (store *stubStore) UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	user, found := store.users[userID]
	if !found {
		return errors.New("missing user")
	}
	user.PasswordHash = passwordHash
	user.MustChangePassword = mustChangePassword
	store.users[userID] = user
	return nil
}

func (store *stubStore) UpdateTelegramChatID(userID uint, chatID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	user, found := store.users[userID]
	if !found {
		return errors.New("missing user")
	}
	user.TelegramChatID = chatID
	store.users[userID] = user
	return nil
}

func (store *stubStore) CompleteOnboarding(userID uint, settings *models.UserSettings, period *models.PeriodLog) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.failWith != nil {
		return store.failWith
	}
	store.settings[userID] = *settings
	if period != nil {
		store.logs = append(store.logs, *period)
	}
	user := store.users[userID]
	user.OnboardingCompleted = true
	store.users[userID] = user
	return nil
}

func (store *stubStore) FindByUser(userID uint) (models.UserSettings, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.failWith != nil {
		return models.UserSettings{}, false, store.failWith
	}
	settings, found := store.settings[userID]
	return settings, found, nil
}

func (store *stubStore) Save(settings *models.UserSettings) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.settings[settings.UserID] = *settings
	return nil
}

func (store *stubStore) ListWithNotificationsEnabled() ([]models.UserSettings, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.failWith != nil {
		return nil, store.failWith
	}
	enabled := make([]models.UserSettings, 0)
	for _, settings := range store.settings {
		if settings.EnableNotifications {
			enabled = append(enabled, settings)
		}
	}
	return enabled, nil
}

// periodStub adapts stubStore to PeriodLogRepository, whose Create collides
// with the user repository method.
type periodStub struct {
	store *stubStore
}

func (repo periodStub) ListByUser(userID uint) ([]models.PeriodLog, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()
	if repo.store.failWith != nil {
		return nil, repo.store.failWith
	}
	logs := make([]models.PeriodLog, 0)
	for _, entry := range repo.store.logs {
		if entry.UserID == userID {
			logs = append(logs, entry)
		}
	}
	return logs, nil
}

func (repo periodStub) FindLatestByUser(userID uint) (models.PeriodLog, bool, error) {
	logs, err := repo.ListByUser(userID)
	if err != nil {
		return models.PeriodLog{}, false, err
	}
	latest, ok := LatestPeriodLog(logs)
	return latest, ok, nil
}

func (repo periodStub) Create(entry *models.PeriodLog) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()
	repo.store.logs = append(repo.store.logs, *entry)
	return nil
}

func (repo periodStub) DeleteByUserAndID(userID uint, id string) (bool, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()
	for index, entry := range repo.store.logs {
		if entry.UserID == userID && entry.ID == id {
			repo.store.logs = append(repo.store.logs[:index], repo.store.logs[index+1:]...)
			return true, nil
		}
	}
	return false, nil
}
