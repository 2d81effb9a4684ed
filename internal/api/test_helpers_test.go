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
	"github.com/medcompanion/medcompanion/internal/db"
	"github.com/medcompanion/medcompanion/internal/models"
)

func newTestApp(t *testing.T) (*fiber.App, *Handler) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "medcompanion-test.db")
	database, err := db.OpenSQLite(databasePath)
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

	// Label lookups answer locally so tests never reach openFDA.
	labelServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`))
	}))
	t.Cleanup(labelServer.Close)

	handler := NewHandler(database, Config{
		LabelBaseURL: labelServer.URL,
		Location:     time.UTC,
	})
	t.Cleanup(handler.Reminders().CancelAll)

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, handler
}

func jsonRequest(t *testing.T, method string, target string, payload any) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, target, body)
	if payload != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	return request
}

func doJSON(t *testing.T, app *fiber.App, request *http.Request, wantStatus int, out any) {
	t.Helper()

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", request.Method, request.URL.Path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if response.StatusCode != wantStatus {
		t.Fatalf("expected status %d for %s %s, got %d: %s", wantStatus, request.Method, request.URL.Path, response.StatusCode, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("decode response %s: %v", raw, err)
		}
	}
}

func createTestMedication(t *testing.T, app *fiber.App, name string) models.Medication {
	t.Helper()

	medication := models.Medication{}
	payload := map[string]any{"name": name, "dose": "100", "unit": "mg"}
	doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/medications/", payload), http.StatusCreated, &medication)
	return medication
}

func createTestSchedule(t *testing.T, app *fiber.App, medication models.Medication, times []string) models.Schedule {
	t.Helper()

	schedule := models.Schedule{}
	payload := map[string]any{"medication_id": medication.ID, "times": times}
	doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/schedules/", payload), http.StatusCreated, &schedule)
	return schedule
}
