package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/lunalog/internal/models"
)

const maxPeriodNotesLength = 2000

var ErrPeriodOverlap = errors.New("period overlaps an existing log")

type OverlapPolicy string

const (
	OverlapAllow  OverlapPolicy = "allow"
	OverlapReject OverlapPolicy = "reject"
)

func ParseOverlapPolicy(raw string) (OverlapPolicy, error) {
	switch OverlapPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", OverlapAllow:
		return OverlapAllow, nil
	case OverlapReject:
		return OverlapReject, nil
	default:
		return "", fmt.Errorf("unknown overlap policy %q", raw)
	}
}

type PeriodInput struct {
	StartDate string `json:"start_date" form:"start_date"`
	EndDate   string `json:"end_date" form:"end_date"`
	Flow      string `json:"flow" form:"flow"`
	Notes     string `json:"notes" form:"notes"`
}

func isValidFlow(flow string) bool {
	switch flow {
	case models.FlowNone, models.FlowLight, models.FlowMedium, models.FlowHeavy:
		return true
	default:
		return false
	}
}

// ValidatePeriodInput turns raw form values into a PeriodLog with a fresh ID,
// or a *ValidationError naming the offending fields.
func ValidatePeriodInput(input PeriodInput, now time.Time, location *time.Location) (models.PeriodLog, error) {
	validation := &ValidationError{}
	today := DateAtLocation(now, location)

	start, err := ParseDay(input.StartDate, location)
	if err != nil {
		validation.add("start_date", "please select a valid date")
	} else if start.After(today) {
		validation.add("start_date", "must not be in the future")
	}

	end, err := ParseDay(input.EndDate, location)
	if err != nil {
		validation.add("end_date", "please select a valid date")
	} else if !start.IsZero() && end.Before(start) {
		validation.add("end_date", "end date must not be before start date")
	}

	flow := strings.ToLower(strings.TrimSpace(input.Flow))
	if flow == "" {
		flow = models.FlowNone
	}
	if !isValidFlow(flow) {
		validation.add("flow", "invalid flow value")
	}

	notes := strings.TrimSpace(input.Notes)
	if len(notes) > maxPeriodNotesLength {
		validation.add("notes", "must be 2000 characters or less")
	}

	if err := validation.orNil(); err != nil {
		return models.PeriodLog{}, err
	}
	return models.PeriodLog{
		ID:        uuid.NewString(),
		StartDate: start,
		EndDate:   end,
		Flow:      flow,
		Notes:     notes,
	}, nil
}

// NewPeriodLog builds a local log entry from already-parsed days.
func NewPeriodLog(start time.Time, end time.Time) models.PeriodLog {
	return models.PeriodLog{
		ID:        uuid.NewString(),
		StartDate: start,
		EndDate:   end,
		Flow:      models.FlowNone,
	}
}

// CheckOverlap applies policy to candidate against the existing logs.
func CheckOverlap(existing []models.PeriodLog, candidate models.PeriodLog, policy OverlapPolicy) error {
	if policy != OverlapReject {
		return nil
	}
	candidateStart := NormalizeDay(candidate.StartDate, time.UTC)
	candidateEnd := NormalizeDay(candidate.EndDate, time.UTC)
	for _, entry := range existing {
		start := NormalizeDay(entry.StartDate, time.UTC)
		end := NormalizeDay(entry.EndDate, time.UTC)
		if end.Before(start) {
			end = start
		}
		if !candidateStart.After(end) && !candidateEnd.Before(start) {
			return ErrPeriodOverlap
		}
	}
	return nil
}
