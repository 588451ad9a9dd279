package services

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/terraincognita07/lunalog/internal/i18n"
)

const calendarProductID = "-//Lunalog//Cycle Predictions//EN"

// Translator renders a message key in a language.
type Translator interface {
	Translate(language string, key string) string
	Translatef(language string, key string, args ...any) string
}

type CalendarLabels struct {
	Name    string
	Period  string
	Fertile string
	// Range is a format template taking the first and last day.
	Range string
}

func LocalizedCalendarLabels(translator Translator, language string) CalendarLabels {
	if translator == nil {
		translator = i18n.Default()
	}
	return CalendarLabels{
		Name:    translator.Translatef(language, "calendar.name"),
		Period:  translator.Translatef(language, "calendar.period"),
		Fertile: translator.Translatef(language, "calendar.fertile"),
		Range:   translator.Translate(language, "calendar.range"),
	}
}

// BuildCalendarFeed renders projected cycles as all-day iCalendar events.
// Event UIDs are derived from uidSeed and the projected day, so re-exports
// update events in place rather than duplicating them.
func BuildCalendarFeed(cycles []ProjectedCycle, labels CalendarLabels, uidSeed string, stamp time.Time) string {
	calendar := ical.NewCalendar()
	calendar.SetMethod(ical.MethodPublish)
	calendar.SetProductId(calendarProductID)
	calendar.SetXWRCalName(labels.Name)

	for _, cycle := range cycles {
		addAllDayEvent(calendar,
			fmt.Sprintf("period-%s-%s@lunalog", uidSeed, FormatDay(cycle.Period.Start)),
			labels.Period,
			labels.Range,
			cycle.Period,
			stamp,
		)
		addAllDayEvent(calendar,
			fmt.Sprintf("fertile-%s-%s@lunalog", uidSeed, FormatDay(cycle.FertileWindow.Start)),
			labels.Fertile,
			labels.Range,
			cycle.FertileWindow,
			stamp,
		)
	}
	return calendar.Serialize()
}

func addAllDayEvent(calendar *ical.Calendar, uid string, summary string, rangeFormat string, window PredictedWindow, stamp time.Time) {
	event := calendar.AddEvent(uid)
	event.SetDtStampTime(stamp.UTC())
	event.SetSummary(summary)
	event.SetAllDayStartAt(window.Start)
	// DTEND is exclusive for all-day events.
	event.SetAllDayEndAt(window.End.AddDate(0, 0, 1))
	if rangeFormat != "" {
		event.SetDescription(fmt.Sprintf(rangeFormat, FormatDay(window.Start), FormatDay(window.End)))
	}
}
