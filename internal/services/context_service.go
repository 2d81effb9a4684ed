package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/medcompanion/medcompanion/internal/models"
)

const (
	contextSymptomWindowDays = 7
	contextMaxSymptoms       = 10
	contextMaxSymptomLength  = 200
	contextMaxFieldLength    = 600
)

// answeringRules closes every context so the chat backend stays
// grounded in it and always disclaims medical advice.
const answeringRules = `## Answering rules
- Answer using the context above.
- If the context does not contain the info, say you do not have that information.
- Keep answers under 120 words.
- Use plain language.
- This is not medical advice.`

type ContextLabelExplainer interface {
	Explain(ctx context.Context, name string, refresh bool) (models.DrugLabel, error)
}

type ContextMedicationReader interface {
	List() ([]models.Medication, error)
}

type ContextScheduleReader interface {
	ListByMedication(medicationID uuid.UUID) ([]models.Schedule, error)
}

type ContextDoseReader interface {
	ListByMedicationSince(medicationID uuid.UUID, since time.Time) ([]models.DoseLog, error)
}

type ContextSymptomReader interface {
	ListSince(since time.Time) ([]models.SymptomLog, error)
}

// ContextService assembles the bounded text blob handed to the chat
// backend as grounding input. Label lookups are cache-first and every
// free-text field is whitespace-normalized and length-capped.
type ContextService struct {
	labels      ContextLabelExplainer
	medications ContextMedicationReader
	schedules   ContextScheduleReader
	doseLogs    ContextDoseReader
	symptomLogs ContextSymptomReader
	location    *time.Location
	now         func() time.Time
}

func NewContextService(
	labelExplainer ContextLabelExplainer,
	medications ContextMedicationReader,
	schedules ContextScheduleReader,
	doseLogs ContextDoseReader,
	symptomLogs ContextSymptomReader,
	location *time.Location,
) *ContextService {
	if location == nil {
		location = time.UTC
	}
	return &ContextService{
		labels:      labelExplainer,
		medications: medications,
		schedules:   schedules,
		doseLogs:    doseLogs,
		symptomLogs: symptomLogs,
		location:    location,
		now:         time.Now,
	}
}

// BuildForMedication assembles one medication's context in fixed
// section order. A failed label lookup degrades to an explicit "no
// summary" line, never a build failure.
func (service *ContextService) BuildForMedication(ctx context.Context, medication models.Medication) (string, error) {
	now := service.now()
	parts := make([]string, 0, 5)
	parts = append(parts, strings.TrimSpace(fmt.Sprintf("# Medication: %s %s%s", medication.Name, medication.Dose, medication.Unit)))

	if label, err := service.labels.Explain(ctx, medication.Name, false); err == nil {
		parts = append(parts, labelSummarySection(label))
	} else {
		parts = append(parts, "## No label summary available for this medication.")
	}

	scheduleSection, err := service.scheduleSection(medication.ID, now)
	if err != nil {
		return "", err
	}
	parts = append(parts, scheduleSection)

	symptomSection, err := service.recentSymptomSection(now)
	if err != nil {
		return "", err
	}
	if symptomSection != "" {
		parts = append(parts, symptomSection)
	}

	parts = append(parts, answeringRules)
	return strings.Join(parts, "\n\n"), nil
}

// BuildForAllMedications iterates every medication, best-effort
// enriching each with a label summary. A lookup failure silently omits
// that medication's summary rather than aborting the build.
func (service *ContextService) BuildForAllMedications(ctx context.Context) (string, error) {
	medications, err := service.medications.List()
	if err != nil {
		return "", err
	}

	perMedication := make([]string, 0, len(medications)*3)
	for _, medication := range medications {
		perMedication = append(perMedication, strings.TrimSpace(fmt.Sprintf("### %s %s%s", medication.Name, medication.Dose, medication.Unit)))

		if label, labelErr := service.labels.Explain(ctx, medication.Name, false); labelErr == nil {
			perMedication = append(perMedication, fmt.Sprintf("Class: %s\nWhat it does: %s\nHow to take: %s",
				oneLine(label.Class, contextMaxFieldLength),
				oneLine(label.WhatItDoes, contextMaxFieldLength),
				oneLine(label.HowToTake, contextMaxFieldLength),
			))
		}

		times, timesErr := service.configuredTimes(medication.ID)
		if timesErr != nil {
			return "", timesErr
		}
		if len(times) > 0 {
			perMedication = append(perMedication, "Times: "+strings.Join(times, ", "))
		}
	}

	parts := []string{
		"# User medications overview",
		strings.Join(perMedication, "\n"),
		answeringRules,
	}
	return strings.Join(parts, "\n\n"), nil
}

func labelSummarySection(label models.DrugLabel) string {
	return fmt.Sprintf(`## Label summary
Class: %s
What it does: %s
How to take: %s
Common side effects: %s
Cautions: %s
Interactions: %s`,
		oneLine(label.Class, contextMaxFieldLength),
		oneLine(label.WhatItDoes, contextMaxFieldLength),
		oneLine(label.HowToTake, contextMaxFieldLength),
		oneLine(label.CommonSideEffects, contextMaxFieldLength),
		oneLine(label.Cautions, contextMaxFieldLength),
		oneLine(label.Interactions, contextMaxFieldLength),
	)
}

func (service *ContextService) scheduleSection(medicationID uuid.UUID, now time.Time) (string, error) {
	times, err := service.configuredTimes(medicationID)
	if err != nil {
		return "", err
	}
	timesLine := "none set"
	if len(times) > 0 {
		timesLine = strings.Join(times, ", ")
	}

	logs, err := service.doseLogs.ListByMedicationSince(medicationID, now.AddDate(0, 0, -contextSymptomWindowDays))
	if err != nil {
		return "", err
	}
	adherence := TrailingAdherence(logs, medicationID, now)

	return fmt.Sprintf(`## Your schedule for this med
Times: %s
7-day adherence: %d%% (%d/%d)`,
		timesLine,
		adherence.Percent,
		adherence.Taken,
		adherence.Taken+adherence.Skipped,
	), nil
}

func (service *ContextService) recentSymptomSection(now time.Time) (string, error) {
	logs, err := service.symptomLogs.ListSince(now.AddDate(0, 0, -contextSymptomWindowDays))
	if err != nil {
		return "", err
	}
	if len(logs) > contextMaxSymptoms {
		logs = logs[len(logs)-contextMaxSymptoms:]
	}
	if len(logs) == 0 {
		return "", nil
	}

	lines := make([]string, 0, len(logs)+1)
	lines = append(lines, "## Recent symptoms (last 7 days)")
	for _, entry := range logs {
		lines = append(lines, fmt.Sprintf("- %s · Severity %d: %s",
			entry.OccurredAt.In(service.location).Format("Jan 2 15:04"),
			entry.Severity,
			oneLine(entry.Text, contextMaxSymptomLength),
		))
	}
	return strings.Join(lines, "\n"), nil
}

func (service *ContextService) configuredTimes(medicationID uuid.UUID) ([]string, error) {
	schedules, err := service.schedules.ListByMedication(medicationID)
	if err != nil {
		return nil, err
	}
	times := make([]string, 0)
	for _, schedule := range schedules {
		times = append(times, schedule.Times...)
	}
	sort.Strings(times)
	return times, nil
}

// oneLine collapses whitespace and caps length so copied free text
// never blows up the prompt.
func oneLine(value string, maxLength int) string {
	collapsed := strings.Join(strings.Fields(value), " ")
	if maxLength > 0 && len(collapsed) > maxLength {
		cut := maxLength
		for cut > 0 && !utf8.RuneStart(collapsed[cut]) {
			cut--
		}
		collapsed = strings.TrimSpace(collapsed[:cut])
	}
	return collapsed
}
