package labels

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFetchFallsThroughCandidateQueries(t *testing.T) {
	var searches []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		search := r.URL.Query().Get("search")
		searches = append(searches, search)
		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(search, "openfda.substance_name:") {
			w.Write([]byte(`{"results":[{"indications_and_usage":["Relieves minor aches."]}]}`))
			return
		}
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	label, err := client.Fetch(context.Background(), "aspirin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(searches) != 3 {
		t.Fatalf("expected lookup to stop at the third candidate query, got %d: %v", len(searches), searches)
	}
	if label.WhatItDoes != "Relieves minor aches." {
		t.Fatalf("expected extracted usage text, got %q", label.WhatItDoes)
	}
	if label.Source != "openFDA drug label" {
		t.Fatalf("expected source attribution, got %q", label.Source)
	}
}

func TestFetchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Fetch(context.Background(), "nosuchdrug"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchEmptyRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"openfda":{"generic_name":["aspirin"]}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Fetch(context.Background(), "aspirin"); !errors.Is(err, ErrEmptyRecord) {
		t.Fatalf("expected ErrEmptyRecord, got %v", err)
	}
}

func TestExtractLabelFallbacks(t *testing.T) {
	document := labelDocument{}
	document.IndicationsAndUsage = []string{"Treats headaches."}

	label, err := extractLabel("aspirin", document)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label.GenericName != "aspirin" {
		t.Fatalf("expected query name fallback, got %q", label.GenericName)
	}
	if label.Class != "Medication" {
		t.Fatalf("expected default class, got %q", label.Class)
	}
	if label.HowToTake != "Take exactly as directed by your clinician." {
		t.Fatalf("expected fixed fallback sentence, got %q", label.HowToTake)
	}
	if label.WhatItDoes != "Treats headaches." {
		t.Fatalf("expected source text preserved, got %q", label.WhatItDoes)
	}
}

func TestExtractLabelPrefersEarlierFields(t *testing.T) {
	document := labelDocument{}
	document.IndicationsAndUsage = []string{"From indications."}
	document.Purpose = []string{"From purpose."}
	document.OpenFDA.GenericName = []string{"acetylsalicylic acid"}
	document.OpenFDA.PharmClassEPC = []string{"NSAID"}

	label, err := extractLabel("aspirin", document)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label.WhatItDoes != "From indications." {
		t.Fatalf("expected first field to win, got %q", label.WhatItDoes)
	}
	if label.GenericName != "acetylsalicylic acid" {
		t.Fatalf("expected generic name from record, got %q", label.GenericName)
	}
	if label.Class != "NSAID" {
		t.Fatalf("expected class from record, got %q", label.Class)
	}
}

func TestJoinAndCap(t *testing.T) {
	long := strings.Repeat("word ", 300)
	capped := joinAndCap([]string{long})
	if len(capped) > maxFieldLength {
		t.Fatalf("expected field capped at %d, got %d", maxFieldLength, len(capped))
	}
	if joined := joinAndCap([]string{"two  spaced", "values"}); joined != "two spaced values" {
		t.Fatalf("expected collapsed whitespace, got %q", joined)
	}

	boundary := strings.Repeat("a", maxFieldLength-1) + "é"
	capped = joinAndCap([]string{boundary})
	if !utf8.ValidString(capped) {
		t.Fatalf("expected cap to back off to a rune boundary, got trailing bytes %q", capped[len(capped)-4:])
	}
	if len(capped) != maxFieldLength-1 {
		t.Fatalf("expected cap to drop the split rune, got length %d", len(capped))
	}
}
