package services

import (
	"errors"
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

var ErrInvalidDay = errors.New("invalid day")

// DateAtLocation returns local midnight of the calendar day the instant falls
// on in location. Use it for "now"; stored dates go through NormalizeDay.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// ParseDay parses a YYYY-MM-DD value as midnight in location.
func ParseDay(raw string, location *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, ErrInvalidDay
	}
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.ParseInLocation(DayLayout, trimmed, location)
	if err != nil {
		return time.Time{}, ErrInvalidDay
	}
	return parsed, nil
}

func FormatDay(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(DayLayout)
}

func sameCalendarDay(a time.Time, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func betweenCalendarDaysInclusive(day time.Time, start time.Time, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	return !day.Before(start) && !day.After(end)
}
