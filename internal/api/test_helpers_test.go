package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunalog/internal/db"
	"github.com/terraincognita07/lunalog/internal/services"
)

const testPassword = "StrongPass1"

func newTestApp(t *testing.T, policy services.OverlapPolicy) *fiber.App {
	t.Helper()
	app, _ := newTestAppWithRepositories(t, policy)
	return app
}

func newTestAppWithRepositories(t *testing.T, policy services.OverlapPolicy) (*fiber.App, *db.Repositories) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "lunalog-api.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repos := db.NewRepositories(database)
	handler, err := NewHandler(repos, Options{
		SecretKey:     "test-secret-key",
		Location:      time.UTC,
		OverlapPolicy: policy,
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, repos
}

func doJSON(t *testing.T, app *fiber.App, method string, path string, authCookie string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")
	if authCookie != "" {
		request.Header.Set("Cookie", authCookie)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func expectStatus(t *testing.T, response *http.Response, expected int) {
	t.Helper()
	if response.StatusCode != expected {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", expected, response.StatusCode, string(body))
	}
}

func decodeBody(t *testing.T, response *http.Response, target any) {
	t.Helper()
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()
	payload := map[string]any{}
	decodeBody(t, response, &payload)
	message, _ := payload["error"].(string)
	return message
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

// registerUser creates an account and returns a Cookie header value.
func registerUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email":    email,
		"password": testPassword,
	})
	expectStatus(t, response, fiber.StatusCreated)

	cookie := responseCookie(response.Cookies(), authCookieName)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected auth cookie after register")
	}
	return authCookieName + "=" + cookie.Value
}

func onboardUser(t *testing.T, app *fiber.App, authCookie string, lastPeriod string) {
	t.Helper()

	payload := fiber.Map{
		"average_cycle_length":  28,
		"average_period_length": 5,
		"reminder_days_before":  2,
		"tracking_goal":         "general",
	}
	if lastPeriod != "" {
		payload["last_period_date"] = lastPeriod
	}
	response := doJSON(t, app, http.MethodPost, "/api/onboarding", authCookie, payload)
	expectStatus(t, response, fiber.StatusOK)
}

func daysAgo(days int) string {
	return time.Now().UTC().AddDate(0, 0, -days).Format(services.DayLayout)
}
