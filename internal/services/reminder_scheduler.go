package services

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultReminderSchedule = "0 8 * * *"

type ReminderSource interface {
	DueReminders(ctx context.Context, now time.Time) ([]Reminder, error)
}

type Notifier interface {
	Notify(ctx context.Context, reminder Reminder) error
}

// ReminderScheduler runs the reminder source on a cron schedule and hands
// each reminder to the notifier at most once per user per day.
type ReminderScheduler struct {
	source   ReminderSource
	notifier Notifier
	logger   *zap.Logger
	location *time.Location
	now      func() time.Time

	mu   sync.Mutex
	sent map[string]time.Time
}

func NewReminderScheduler(source ReminderSource, notifier Notifier, logger *zap.Logger, location *time.Location) *ReminderScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.Local
	}
	return &ReminderScheduler{
		source:   source,
		notifier: notifier,
		logger:   logger,
		location: location,
		now:      time.Now,
		sent:     make(map[string]time.Time),
	}
}

// Start registers the run on spec and returns once the cron runner is
// started. The runner stops when ctx is cancelled.
func (scheduler *ReminderScheduler) Start(ctx context.Context, spec string) error {
	if spec == "" {
		spec = DefaultReminderSchedule
	}
	runner := cron.New(cron.WithLocation(scheduler.location))
	if _, err := runner.AddFunc(spec, func() { scheduler.RunOnce(ctx) }); err != nil {
		return err
	}
	runner.Start()
	scheduler.logger.Info("reminder scheduler started", zap.String("schedule", spec))

	go func() {
		<-ctx.Done()
		stopped := runner.Stop()
		<-stopped.Done()
		scheduler.logger.Info("reminder scheduler stopped")
	}()
	return nil
}

// RunOnce collects due reminders and delivers the ones not yet sent today.
func (scheduler *ReminderScheduler) RunOnce(ctx context.Context) int {
	now := scheduler.now()
	reminders, err := scheduler.source.DueReminders(ctx, now)
	if err != nil {
		scheduler.logger.Error("collect reminders failed", zap.Error(err))
	}

	today := DateAtLocation(now, scheduler.location)
	delivered := 0
	for _, reminder := range reminders {
		if !scheduler.shouldSend(reminder.Key(), today) {
			continue
		}
		if err := scheduler.notifier.Notify(ctx, reminder); err != nil {
			scheduler.forget(reminder.Key())
			scheduler.logger.Warn("send reminder failed",
				zap.Uint("user_id", reminder.UserID),
				zap.String("kind", reminder.Kind),
				zap.Error(err),
			)
			continue
		}
		delivered++
	}
	return delivered
}

func (scheduler *ReminderScheduler) shouldSend(key string, today time.Time) bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	if sentOn, ok := scheduler.sent[key]; ok && sameCalendarDay(sentOn, today) {
		return false
	}
	scheduler.sent[key] = today
	if len(scheduler.sent) > 500 {
		for existing, sentOn := range scheduler.sent {
			if !sameCalendarDay(sentOn, today) {
				delete(scheduler.sent, existing)
			}
		}
	}
	return true
}

func (scheduler *ReminderScheduler) forget(key string) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	delete(scheduler.sent, key)
}
