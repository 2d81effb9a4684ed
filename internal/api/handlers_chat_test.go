package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/medcompanion/medcompanion/internal/services"
)

func TestChatDisabledBySettings(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	payload := map[string]any{"question": "when do I take aspirin"}
	doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/chat", payload), http.StatusForbidden, nil)
}

func TestChatRequiresQuestion(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/chat", map[string]any{"question": "  "}), http.StatusBadRequest, nil)
}

func TestChatFallbackAnswersFromContext(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	medication := createTestMedication(t, app, "Aspirin")
	createTestSchedule(t, app, medication, []string{"08:00"})

	settings := map[string]any{"ai_enabled": true}
	doJSON(t, app, jsonRequest(t, http.MethodPut, "/api/settings/", settings), http.StatusOK, nil)

	payload := map[string]any{"question": "what is my schedule", "medication_id": medication.ID}
	reply := map[string]string{}
	doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/chat", payload), http.StatusOK, &reply)

	if reply["reply"] == "" {
		t.Fatalf("expected a reply, got %v", reply)
	}
	if !strings.Contains(reply["reply"], services.MedicalDisclaimer) {
		t.Fatalf("expected disclaimer in reply, got %q", reply["reply"])
	}
}

func TestChatUnknownMedication(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	doJSON(t, app, jsonRequest(t, http.MethodPut, "/api/settings/", map[string]any{"ai_enabled": true}), http.StatusOK, nil)

	payload := map[string]any{
		"question":      "what is this",
		"medication_id": "8f14e45f-ceea-467f-a34e-000000000001",
	}
	doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/chat", payload), http.StatusNotFound, nil)
}
