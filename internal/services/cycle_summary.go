package services

import (
	"errors"
	"math"
	"time"

	"github.com/terraincognita07/lunalog/internal/models"
)

var ErrInsufficientData = errors.New("insufficient data")

const (
	PhaseMenstrual  = "menstrual"
	PhaseFollicular = "follicular"
	PhaseFertile    = "fertile"
	PhaseOvulation  = "ovulation"
	PhaseLuteal     = "luteal"
)

const staleCycleGraceDays = 7

type CycleSummary struct {
	LastPeriodStart    time.Time       `json:"last_period_start"`
	CurrentCycleDay    int             `json:"current_cycle_day"`
	CycleLength        int             `json:"cycle_length"`
	AverageCycleLength float64         `json:"average_cycle_length"`
	ObservedAverage    bool            `json:"observed_average"`
	FertileWindow      PredictedWindow `json:"fertile_window"`
	OvulationDate      time.Time       `json:"ovulation_date"`
	NextPeriod         PredictedWindow `json:"next_period"`
	CurrentPhase       string          `json:"current_phase"`
	Stale              bool            `json:"stale"`
}

// ResolveCycleLength picks the cycle length predictions run on: the observed
// average when at least two periods are logged and it rounds into the
// accepted cycle range, then the user's settings, then the default.
func ResolveCycleLength(logs []models.PeriodLog, settings *models.UserSettings) (int, float64, bool) {
	if average, ok := AverageCycleLength(logs); ok {
		if rounded := int(math.Round(average)); IsValidCycleLength(rounded) {
			return rounded, average, true
		}
	}
	if settings != nil && IsValidCycleLength(settings.AverageCycleLength) {
		return settings.AverageCycleLength, float64(settings.AverageCycleLength), false
	}
	return models.DefaultCycleLength, float64(models.DefaultCycleLength), false
}

// BuildCycleSummary is what screens render. It returns ErrInsufficientData
// instead of calling the predictors when nothing has been logged.
func BuildCycleSummary(logs []models.PeriodLog, settings *models.UserSettings, now time.Time, location *time.Location) (CycleSummary, error) {
	latest, ok := LatestPeriodLog(logs)
	if !ok {
		return CycleSummary{}, ErrInsufficientData
	}
	if location == nil {
		location = time.UTC
	}

	today := DateAtLocation(now, location)
	lastStart := NormalizeDay(latest.StartDate, location)
	cycleLength, average, observed := ResolveCycleLength(logs, settings)

	summary := CycleSummary{
		LastPeriodStart:    lastStart,
		CycleLength:        cycleLength,
		AverageCycleLength: average,
		ObservedAverage:    observed,
		FertileWindow:      PredictFertileWindow(lastStart, cycleLength),
		OvulationDate:      EstimatedOvulation(lastStart, cycleLength),
		NextPeriod:         PredictNextPeriod(lastStart, cycleLength),
	}
	if !today.Before(lastStart) {
		summary.CurrentCycleDay = CurrentCycleDay(lastStart, today)
		summary.Stale = summary.CurrentCycleDay > cycleLength+staleCycleGraceDays
	}
	summary.CurrentPhase = DetectCurrentPhase(summary, logs, today, location)
	return summary, nil
}

func DetectCurrentPhase(summary CycleSummary, logs []models.PeriodLog, today time.Time, location *time.Location) string {
	for _, entry := range logs {
		start := NormalizeDay(entry.StartDate, location)
		end := NormalizeDay(entry.EndDate, location)
		if end.Before(start) {
			end = start
		}
		if betweenCalendarDaysInclusive(today, start, end) {
			return PhaseMenstrual
		}
	}

	switch {
	case sameCalendarDay(today, summary.OvulationDate):
		return PhaseOvulation
	case betweenCalendarDaysInclusive(today, summary.FertileWindow.Start, summary.FertileWindow.End):
		return PhaseFertile
	case today.Before(summary.FertileWindow.Start):
		return PhaseFollicular
	default:
		return PhaseLuteal
	}
}
