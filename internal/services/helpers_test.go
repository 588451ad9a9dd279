package services

import (
	"testing"
	"time"

	"github.com/terraincognita07/lunalog/internal/models"
)

func mustParseDay(t *testing.T, raw string) time.Time {
	t.Helper()
	day, err := ParseDay(raw, time.UTC)
	if err != nil {
		t.Fatalf("parse day %q: %v", raw, err)
	}
	return day
}

func periodLog(t *testing.T, id string, start string, end string) models.PeriodLog {
	t.Helper()
	return models.PeriodLog{
		ID:        id,
		StartDate: mustParseDay(t, start),
		EndDate:   mustParseDay(t, end),
		Flow:      models.FlowNone,
	}
}

func assertDay(t *testing.T, label string, got time.Time, want string) {
	t.Helper()
	if formatted := FormatDay(got); formatted != want {
		t.Fatalf("%s: expected %s, got %s", label, want, formatted)
	}
}
