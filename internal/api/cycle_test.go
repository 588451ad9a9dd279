package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestCycleReportsInsufficientDataWithoutPeriods(t *testing.T) {
	app := newTestApp(t, "")
	authCookie := registerUser(t, app, "empty@example.com")
	onboardUser(t, app, authCookie, "")

	response := doJSON(t, app, http.MethodGet, "/api/cycle", authCookie, nil)
	expectStatus(t, response, fiber.StatusOK)
	payload := map[string]any{}
	decodeBody(t, response, &payload)
	if payload["insufficient_data"] != true {
		t.Fatalf("expected insufficient_data, got %+v", payload)
	}
}

func TestCycleSummaryFromLoggedPeriod(t *testing.T) {
	app := newTestApp(t, "")
	authCookie := registerUser(t, app, "cycle@example.com")
	onboardUser(t, app, authCookie, daysAgo(5))

	response := doJSON(t, app, http.MethodGet, "/api/cycle", authCookie, nil)
	expectStatus(t, response, fiber.StatusOK)

	payload := struct {
		InsufficientData bool              `json:"insufficient_data"`
		LastPeriodStart  string            `json:"last_period_start"`
		CurrentCycleDay  int               `json:"current_cycle_day"`
		CycleLength      int               `json:"cycle_length"`
		NextPeriod       map[string]string `json:"next_period"`
		CurrentPhase     string            `json:"current_phase"`
	}{}
	decodeBody(t, response, &payload)

	if payload.InsufficientData {
		t.Fatal("expected a summary")
	}
	if payload.LastPeriodStart != daysAgo(5) {
		t.Fatalf("expected last period start %s, got %s", daysAgo(5), payload.LastPeriodStart)
	}
	if payload.CurrentCycleDay != 6 {
		t.Fatalf("expected cycle day 6, got %d", payload.CurrentCycleDay)
	}
	if payload.CycleLength != 28 {
		t.Fatalf("expected settings cycle length 28, got %d", payload.CycleLength)
	}
	if payload.NextPeriod["start"] != daysAgo(5-28) || payload.NextPeriod["end"] != daysAgo(5-32) {
		t.Fatalf("unexpected next period window: %+v", payload.NextPeriod)
	}
	if payload.CurrentPhase != "follicular" {
		t.Fatalf("expected follicular phase, got %q", payload.CurrentPhase)
	}
}

func TestCalendarFeedListsUpcomingPredictions(t *testing.T) {
	app := newTestApp(t, "")
	authCookie := registerUser(t, app, "feed@example.com")
	onboardUser(t, app, authCookie, daysAgo(5))

	response := doJSON(t, app, http.MethodGet, "/api/calendar.ics?upcoming=2", authCookie, nil)
	expectStatus(t, response, fiber.StatusOK)
	if contentType := response.Header.Get("Content-Type"); !strings.HasPrefix(contentType, "text/calendar") {
		t.Fatalf("expected text/calendar content type, got %q", contentType)
	}

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read feed: %v", err)
	}
	body := string(raw)
	if got := strings.Count(body, "BEGIN:VEVENT"); got != 4 {
		t.Fatalf("expected 4 events for 2 cycles, got %d\n%s", got, body)
	}
	if !strings.Contains(body, "SUMMARY:Predicted period") || !strings.Contains(body, "SUMMARY:Fertile window") {
		t.Fatalf("expected period and fertile events, got\n%s", body)
	}
	if got := strings.Count(body, "DESCRIPTION:"); got != 4 {
		t.Fatalf("expected a description on every event, got %d\n%s", got, body)
	}
	if strings.Contains(body, "MISSING") || !strings.Contains(body, " to ") {
		t.Fatalf("expected formatted date ranges in descriptions, got\n%s", body)
	}

	invalid := doJSON(t, app, http.MethodGet, "/api/calendar.ics?upcoming=zero", authCookie, nil)
	expectStatus(t, invalid, fiber.StatusBadRequest)
}

func TestCalendarFeedLocalizesLabels(t *testing.T) {
	app := newTestApp(t, "")
	authCookie := registerUser(t, app, "ru-feed@example.com")
	onboardUser(t, app, authCookie, daysAgo(5))

	response := doJSON(t, app, http.MethodGet, "/api/calendar.ics?upcoming=1&lang=ru", authCookie, nil)
	expectStatus(t, response, fiber.StatusOK)
	raw, _ := io.ReadAll(response.Body)
	if !strings.Contains(string(raw), "SUMMARY:Ожидаемые месячные") {
		t.Fatalf("expected russian summary, got\n%s", string(raw))
	}

	request := httptest.NewRequest(http.MethodGet, "/api/calendar.ics?upcoming=1", nil)
	request.Header.Set("Cookie", authCookie)
	request.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en;q=0.5")
	detected, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("GET calendar failed: %v", err)
	}
	defer detected.Body.Close()
	raw, _ = io.ReadAll(detected.Body)
	if !strings.Contains(string(raw), "SUMMARY:Фертильное окно") {
		t.Fatalf("expected Accept-Language to pick russian, got\n%s", string(raw))
	}
}

func TestCalendarFeedIsEmptyWithoutPeriods(t *testing.T) {
	app := newTestApp(t, "")
	authCookie := registerUser(t, app, "nofeed@example.com")
	onboardUser(t, app, authCookie, "")

	response := doJSON(t, app, http.MethodGet, "/api/calendar.ics", authCookie, nil)
	expectStatus(t, response, fiber.StatusOK)
	raw, _ := io.ReadAll(response.Body)
	if strings.Contains(string(raw), "BEGIN:VEVENT") {
		t.Fatalf("expected no events, got\n%s", string(raw))
	}
}
