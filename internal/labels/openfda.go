// Package labels queries the openFDA drug-label endpoint for a
// structured explanation of a medication. Lookups are best-effort
// sequential fallbacks over candidate query fields with no client-side
// rate limiting; failed lookups are never cached, so retries re-query.
package labels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const DefaultBaseURL = "https://api.fda.gov/drug/label.json"

const maxFieldLength = 600

var (
	// ErrNotFound means no candidate field query returned a record.
	ErrNotFound = errors.New("no drug label found")
	// ErrEmptyRecord means a record was found but carried no usable
	// text in any tracked field.
	ErrEmptyRecord = errors.New("drug label record has no usable text")
)

// Label carries the extracted explanation fields. Every field is
// non-empty: extraction falls back through source fields and ends in a
// fixed sentence so the UI always has text to show.
type Label struct {
	GenericName       string
	Class             string
	WhatItDoes        string
	HowToTake         string
	CommonSideEffects string
	Cautions          string
	Interactions      string
	Source            string
}

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

type labelDocument struct {
	OpenFDA struct {
		GenericName   []string `json:"generic_name"`
		BrandName     []string `json:"brand_name"`
		PharmClassPE  []string `json:"pharm_class_pe"`
		PharmClassEPC []string `json:"pharm_class_epc"`
	} `json:"openfda"`
	IndicationsAndUsage     []string `json:"indications_and_usage"`
	Purpose                 []string `json:"purpose"`
	DosageAndAdministration []string `json:"dosage_and_administration"`
	AdverseReactions        []string `json:"adverse_reactions"`
	Warnings                []string `json:"warnings"`
	BoxedWarning            []string `json:"boxed_warning"`
	WarningsAndCautions     []string `json:"warnings_and_cautions"`
	DrugInteractions        []string `json:"drug_interactions"`
}

type labelResponse struct {
	Results []labelDocument `json:"results"`
}

// Fetch tries each candidate field query in order until one yields a
// record.
func (client *Client) Fetch(ctx context.Context, name string) (Label, error) {
	escaped := strings.ReplaceAll(name, `"`, `\"`)
	queries := []string{
		fmt.Sprintf(`openfda.generic_name:"%s"`, escaped),
		fmt.Sprintf(`openfda.brand_name:"%s"`, escaped),
		fmt.Sprintf(`openfda.substance_name:"%s"`, escaped),
		fmt.Sprintf(`openfda.active_ingredient:"%s"`, escaped),
		fmt.Sprintf(`description:"%s"`, escaped),
	}

	var document *labelDocument
	for _, query := range queries {
		candidate, found, err := client.query(ctx, query)
		if err != nil || !found {
			continue
		}
		document = &candidate
		break
	}
	if document == nil {
		return Label{}, ErrNotFound
	}

	return extractLabel(name, *document)
}

func (client *Client) query(ctx context.Context, search string) (labelDocument, bool, error) {
	endpoint := fmt.Sprintf("%s?search=%s&limit=1", client.baseURL, url.QueryEscape(search))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return labelDocument{}, false, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.client.Do(req)
	if err != nil {
		return labelDocument{}, false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return labelDocument{}, false, nil
	}

	payload := labelResponse{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&payload); err != nil {
		return labelDocument{}, false, fmt.Errorf("decode response: %w", err)
	}
	if len(payload.Results) == 0 {
		return labelDocument{}, false, nil
	}
	return payload.Results[0], true, nil
}

func extractLabel(name string, document labelDocument) (Label, error) {
	whatItDoes := firstUsable(document.IndicationsAndUsage, document.Purpose)
	howToTake := firstUsable(document.DosageAndAdministration)
	sideEffects := firstUsable(document.AdverseReactions)
	cautions := firstUsable(document.Warnings, document.BoxedWarning, document.WarningsAndCautions)
	interactions := firstUsable(document.DrugInteractions)

	if whatItDoes == "" && howToTake == "" && sideEffects == "" && cautions == "" && interactions == "" {
		return Label{}, ErrEmptyRecord
	}

	generic := firstUsable(document.OpenFDA.GenericName, document.OpenFDA.BrandName)
	if generic == "" {
		generic = name
	}
	class := firstUsable(document.OpenFDA.PharmClassPE, document.OpenFDA.PharmClassEPC)
	if class == "" {
		class = "Medication"
	}

	return Label{
		GenericName:       generic,
		Class:             class,
		WhatItDoes:        fallbackText(whatItDoes, "Used to treat a specific condition."),
		HowToTake:         fallbackText(howToTake, "Take exactly as directed by your clinician."),
		CommonSideEffects: fallbackText(sideEffects, "Common side effects may include mild stomach upset or headache."),
		Cautions:          fallbackText(cautions, "Review warnings and precautions with your clinician."),
		Interactions:      fallbackText(interactions, "Tell your clinician about all medicines and supplements."),
		Source:            "openFDA drug label",
	}, nil
}

func firstUsable(fieldValues ...[]string) string {
	for _, values := range fieldValues {
		if text := joinAndCap(values); text != "" {
			return text
		}
	}
	return ""
}

func fallbackText(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// joinAndCap joins the field's array values, collapses whitespace and
// caps the length so cached labels stay bounded.
func joinAndCap(values []string) string {
	joined := strings.Join(strings.Fields(strings.Join(values, " ")), " ")
	if len(joined) > maxFieldLength {
		cut := maxFieldLength
		for cut > 0 && !utf8.RuneStart(joined[cut]) {
			cut--
		}
		joined = strings.TrimSpace(joined[:cut])
	}
	return joined
}
