// Package logstore keeps the offline period log: an ordered collection of
// period entries persisted under a single key.
package logstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/terraincognita07/lunalog/internal/models"
	"github.com/terraincognita07/lunalog/internal/services"
	"go.uber.org/zap"
)

const DefaultKey = "period_logs"

var ErrStorageUnavailable = errors.New("period log storage unavailable")

type Option func(*Store)

func WithOverlapPolicy(policy services.OverlapPolicy) Option {
	return func(store *Store) {
		store.overlapPolicy = policy
	}
}

func WithKey(key string) Option {
	return func(store *Store) {
		store.key = key
	}
}

type Store struct {
	backend       KeyValue
	logger        *zap.Logger
	key           string
	overlapPolicy services.OverlapPolicy

	mu     sync.Mutex
	logs   []models.PeriodLog
	loaded bool
	dirty  bool
}

func New(backend KeyValue, logger *zap.Logger, options ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := &Store{
		backend:       backend,
		logger:        logger,
		key:           DefaultKey,
		overlapPolicy: services.OverlapAllow,
	}
	for _, option := range options {
		option(store)
	}
	return store
}

// Load reads the persisted collection. Missing or unreadable data yields an
// empty collection; the cause is logged, never returned. A failed read is
// retried on the next call.
func (store *Store) Load() []models.PeriodLog {
	store.mu.Lock()
	defer store.mu.Unlock()
	if err := store.loadLocked(); err != nil {
		return []models.PeriodLog{}
	}
	return cloneLogs(store.logs)
}

func (store *Store) loadLocked() error {
	if store.loaded {
		return nil
	}

	raw, found, err := store.backend.Get(store.key)
	if err != nil {
		store.logger.Warn("period log read failed", zap.String("key", store.key), zap.Error(err))
		return fmt.Errorf("%w: read: %v", ErrStorageUnavailable, err)
	}
	store.loaded = true
	store.logs = nil
	if !found || len(raw) == 0 {
		return nil
	}

	var logs []models.PeriodLog
	if err := json.Unmarshal(raw, &logs); err != nil {
		store.logger.Warn("period log corrupt, starting empty", zap.String("key", store.key), zap.Error(err))
		return nil
	}
	store.logs = services.SortPeriodLogs(logs, services.SortAscending)
	return nil
}

// Add inserts entry in start-date order and persists the whole collection.
// On a write failure the returned collection still contains entry and the
// error wraps ErrStorageUnavailable. When the persisted collection cannot be
// read, nothing is written.
func (store *Store) Add(entry models.PeriodLog) ([]models.PeriodLog, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if err := store.loadLocked(); err != nil {
		return []models.PeriodLog{}, err
	}

	if err := services.CheckOverlap(store.logs, entry, store.overlapPolicy); err != nil {
		return cloneLogs(store.logs), err
	}

	next := make([]models.PeriodLog, 0, len(store.logs)+1)
	next = append(next, store.logs...)
	next = append(next, entry)
	store.logs = services.SortPeriodLogs(next, services.SortAscending)

	return cloneLogs(store.logs), store.persistLocked()
}

// Delete removes the entry with id. Unknown ids leave the store untouched.
func (store *Store) Delete(id string) ([]models.PeriodLog, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if err := store.loadLocked(); err != nil {
		return []models.PeriodLog{}, err
	}

	index := -1
	for position, entry := range store.logs {
		if entry.ID == id {
			index = position
			break
		}
	}
	if index < 0 {
		return cloneLogs(store.logs), nil
	}

	next := make([]models.PeriodLog, 0, len(store.logs)-1)
	next = append(next, store.logs[:index]...)
	next = append(next, store.logs[index+1:]...)
	store.logs = next

	return cloneLogs(store.logs), store.persistLocked()
}

func (store *Store) Sorted(order services.SortOrder) []models.PeriodLog {
	store.mu.Lock()
	defer store.mu.Unlock()
	if err := store.loadLocked(); err != nil {
		return []models.PeriodLog{}
	}
	return services.SortPeriodLogs(store.logs, order)
}

// Flush retries a write that failed earlier. It is a no-op when the
// persisted copy is current.
func (store *Store) Flush() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if !store.dirty {
		return nil
	}
	return store.persistLocked()
}

func (store *Store) persistLocked() error {
	payload, err := json.Marshal(store.logs)
	if err != nil {
		store.dirty = true
		return fmt.Errorf("%w: encode: %v", ErrStorageUnavailable, err)
	}
	if err := store.backend.Set(store.key, payload); err != nil {
		store.dirty = true
		store.logger.Error("period log write failed", zap.String("key", store.key), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	store.dirty = false
	return nil
}

func cloneLogs(logs []models.PeriodLog) []models.PeriodLog {
	cloned := make([]models.PeriodLog, len(logs))
	copy(cloned, logs)
	return cloned
}
