package services

import (
	"sort"
	"time"

	"github.com/terraincognita07/lunalog/internal/models"
)

const (
	// LutealPhaseDays is the assumed gap between ovulation and the next period.
	LutealPhaseDays = 14
	// SpermViabilityDays opens the fertile window before ovulation.
	SpermViabilityDays = 2
	// PredictedWindowDays spans both predicted windows, start day included.
	// The next period window does not follow the user's average period length.
	PredictedWindowDays = 5
)

type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

type PredictedWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NormalizeDay re-anchors a stored date to midnight of the same calendar day
// in location. Dates persisted as UTC midnight and later shifted into a local
// zone are read by their UTC fields so the day does not slip by one.
func NormalizeDay(raw time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.Local
	}
	year, month, day := raw.Date()
	if isUTCMidnight(raw) && !isWallClockMidnight(raw) {
		year, month, day = raw.UTC().Date()
	}
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func isUTCMidnight(value time.Time) bool {
	utc := value.UTC()
	return utc.Hour() == 0 && utc.Minute() == 0 && utc.Second() == 0 && utc.Nanosecond() == 0
}

func isWallClockMidnight(value time.Time) bool {
	return value.Hour() == 0 && value.Minute() == 0 && value.Second() == 0 && value.Nanosecond() == 0
}

// CalendarDaysBetween counts whole calendar days from start to end, ignoring
// time of day and DST transitions.
func CalendarDaysBetween(start time.Time, end time.Time) int {
	startYear, startMonth, startDay := start.Date()
	endYear, endMonth, endDay := end.Date()
	startUTC := time.Date(startYear, startMonth, startDay, 0, 0, 0, 0, time.UTC)
	endUTC := time.Date(endYear, endMonth, endDay, 0, 0, 0, 0, time.UTC)
	return int(endUTC.Sub(startUTC).Hours() / 24)
}

// CurrentCycleDay returns the 1-based day of the cycle that started on
// lastPeriodStart. Callers must not pass a today earlier than lastPeriodStart.
func CurrentCycleDay(lastPeriodStart time.Time, today time.Time) int {
	return CalendarDaysBetween(lastPeriodStart, today) + 1
}

func PredictFertileWindow(lastPeriodStart time.Time, averageCycleLength int) PredictedWindow {
	cycleLength := resolveCycleLength(averageCycleLength)
	start := lastPeriodStart.AddDate(0, 0, cycleLength-LutealPhaseDays-SpermViabilityDays)
	return PredictedWindow{
		Start: start,
		End:   start.AddDate(0, 0, PredictedWindowDays-1),
	}
}

func PredictNextPeriod(lastPeriodStart time.Time, averageCycleLength int) PredictedWindow {
	cycleLength := resolveCycleLength(averageCycleLength)
	start := lastPeriodStart.AddDate(0, 0, cycleLength)
	return PredictedWindow{
		Start: start,
		End:   start.AddDate(0, 0, PredictedWindowDays-1),
	}
}

// EstimatedOvulation is LutealPhaseDays before the predicted next period.
func EstimatedOvulation(lastPeriodStart time.Time, averageCycleLength int) time.Time {
	return lastPeriodStart.AddDate(0, 0, resolveCycleLength(averageCycleLength)-LutealPhaseDays)
}

func resolveCycleLength(value int) int {
	if value <= 0 {
		return models.DefaultCycleLength
	}
	return value
}

// AverageCycleLength is the mean gap between consecutive period starts.
func AverageCycleLength(logs []models.PeriodLog) (float64, bool) {
	if len(logs) < 2 {
		return 0, false
	}

	sorted := SortPeriodLogs(logs, SortAscending)
	total := 0
	for index := 1; index < len(sorted); index++ {
		total += CalendarDaysBetween(sorted[index-1].StartDate, sorted[index].StartDate)
	}
	return float64(total) / float64(len(sorted)-1), true
}

// SortPeriodLogs returns a copy of logs ordered by start date. Entries that
// share a start date keep their relative order.
func SortPeriodLogs(logs []models.PeriodLog, order SortOrder) []models.PeriodLog {
	sorted := make([]models.PeriodLog, len(logs))
	copy(sorted, logs)
	if order == SortDescending {
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].StartDate.After(sorted[j].StartDate)
		})
		return sorted
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})
	return sorted
}

func ParseSortOrder(raw string) (SortOrder, bool) {
	switch raw {
	case "", "recent", "desc":
		return SortDescending, true
	case "oldest", "asc":
		return SortAscending, true
	default:
		return "", false
	}
}

func LatestPeriodLog(logs []models.PeriodLog) (models.PeriodLog, bool) {
	if len(logs) == 0 {
		return models.PeriodLog{}, false
	}
	latest := logs[0]
	for _, entry := range logs[1:] {
		if entry.StartDate.After(latest.StartDate) {
			latest = entry
		}
	}
	return latest, true
}
