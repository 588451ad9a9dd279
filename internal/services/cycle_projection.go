package services

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

const (
	DefaultProjectionCount = 3
	MaxProjectionCount     = 12
)

type ProjectedCycle struct {
	Index         int             `json:"index"`
	Period        PredictedWindow `json:"period"`
	FertileWindow PredictedWindow `json:"fertile_window"`
	OvulationDate time.Time       `json:"ovulation_date"`
}

// ProjectUpcomingCycles repeats the single-cycle predictors count times at a
// fixed cycle length. Occurrences are computed on UTC calendar days and
// re-anchored to lastPeriodStart's location so DST never shifts a day.
func ProjectUpcomingCycles(lastPeriodStart time.Time, cycleLength int, count int) ([]ProjectedCycle, error) {
	if count <= 0 {
		return nil, nil
	}
	if count > MaxProjectionCount {
		count = MaxProjectionCount
	}
	cycleLength = resolveCycleLength(cycleLength)
	location := lastPeriodStart.Location()

	year, month, day := lastPeriodStart.Date()
	anchor := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:     rrule.DAILY,
		Interval: cycleLength,
		Count:    count,
		Dtstart:  anchor,
	})
	if err != nil {
		return nil, fmt.Errorf("build cycle recurrence: %w", err)
	}

	// Occurrences are cycle starts, the first being the logged period itself.
	projected := make([]ProjectedCycle, 0, count)
	for index, start := range rule.All() {
		cycleStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, location)
		projected = append(projected, ProjectedCycle{
			Index:         index + 1,
			Period:        PredictNextPeriod(cycleStart, cycleLength),
			FertileWindow: PredictFertileWindow(cycleStart, cycleLength),
			OvulationDate: EstimatedOvulation(cycleStart, cycleLength),
		})
	}
	return projected, nil
}

// ClampProjectionCount maps a requested count onto 1..MaxProjectionCount,
// using the default for anything non-positive.
func ClampProjectionCount(requested int) int {
	switch {
	case requested <= 0:
		return DefaultProjectionCount
	case requested > MaxProjectionCount:
		return MaxProjectionCount
	default:
		return requested
	}
}
