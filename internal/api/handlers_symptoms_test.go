package api

import (
	"net/http"
	"testing"

	"github.com/medcompanion/medcompanion/internal/models"
)

func TestSymptomLifecycle(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	created := models.SymptomLog{}
	payload := map[string]any{"text": "migraine and felt queasy", "severity": 4}
	doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/symptoms/", payload), http.StatusCreated, &created)
	if len(created.Tags) != 2 || created.Tags[0] != "headache" || created.Tags[1] != "nausea" {
		t.Fatalf("expected derived tags [headache nausea], got %v", created.Tags)
	}
	if created.OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at defaulted, got zero")
	}

	listed := []models.SymptomLog{}
	doJSON(t, app, jsonRequest(t, http.MethodGet, "/api/symptoms/", nil), http.StatusOK, &listed)
	if len(listed) != 1 {
		t.Fatalf("expected 1 symptom, got %d", len(listed))
	}

	doJSON(t, app, jsonRequest(t, http.MethodDelete, "/api/symptoms/"+created.ID.String(), nil), http.StatusOK, nil)

	listed = nil
	doJSON(t, app, jsonRequest(t, http.MethodGet, "/api/symptoms/", nil), http.StatusOK, &listed)
	if len(listed) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(listed))
	}
}

func TestCreateSymptomValidation(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/symptoms/", map[string]any{"text": " ", "severity": 3}), http.StatusBadRequest, nil)
	doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/symptoms/", map[string]any{"text": "headache", "severity": 9}), http.StatusBadRequest, nil)
}
