package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const telegramAPIBase = "https://api.telegram.org"

var ErrNotifierChatMissing = errors.New("notifier chat id missing")

type TelegramNotifier struct {
	botToken      string
	defaultChatID string
	apiBase       string
	client        *http.Client
}

func NewTelegramNotifier(botToken string, defaultChatID string) *TelegramNotifier {
	return &TelegramNotifier{
		botToken:      botToken,
		defaultChatID: defaultChatID,
		apiBase:       telegramAPIBase,
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

// WithAPIBase points the notifier at another Bot API host.
func (notifier *TelegramNotifier) WithAPIBase(base string) *TelegramNotifier {
	notifier.apiBase = strings.TrimRight(base, "/")
	return notifier
}

func (notifier *TelegramNotifier) Notify(ctx context.Context, reminder Reminder) error {
	chatID := reminder.ChatID
	if chatID == "" {
		chatID = notifier.defaultChatID
	}
	if chatID == "" {
		return ErrNotifierChatMissing
	}

	values := url.Values{}
	values.Set("chat_id", chatID)
	values.Set("text", reminder.Message)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", notifier.apiBase, notifier.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := notifier.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// LogNotifier writes reminders to the log instead of delivering them.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (notifier *LogNotifier) Notify(_ context.Context, reminder Reminder) error {
	notifier.logger.Info("reminder",
		zap.Uint("user_id", reminder.UserID),
		zap.String("kind", reminder.Kind),
		zap.String("date", FormatDay(reminder.Date)),
		zap.String("message", reminder.Message),
	)
	return nil
}
