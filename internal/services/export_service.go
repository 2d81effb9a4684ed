package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/medcompanion/medcompanion/internal/models"
)

const exportTimestampLayout = "2006-01-02 15:04"

var DoseCSVHeaders = []string{"Medication", "Planned", "Taken at", "Status", "On time"}

var SymptomCSVHeaders = []string{"Occurred", "Severity", "Tags", "Text"}

type ExportMedicationReader interface {
	List() ([]models.Medication, error)
}

type ExportDoseReader interface {
	List() ([]models.DoseLog, error)
}

type ExportSymptomReader interface {
	List() ([]models.SymptomLog, error)
}

// ExportService renders flat projections of the data model for the
// CSV and summary export surfaces. Layout concerns stay with the
// consumer.
type ExportService struct {
	medications ExportMedicationReader
	doseLogs    ExportDoseReader
	symptomLogs ExportSymptomReader
	now         func() time.Time
}

type MedicationSummary struct {
	Name      string `json:"name"`
	Dose      string `json:"dose"`
	Unit      string `json:"unit"`
	Taken     int    `json:"taken"`
	Skipped   int    `json:"skipped"`
	Adherence int    `json:"adherence_percent"`
}

type ExportSummary struct {
	GeneratedAt      time.Time           `json:"generated_at"`
	Medications      []MedicationSummary `json:"medications"`
	RecentSymptoms   []models.SymptomLog `json:"recent_symptoms"`
	TotalDoseLogs    int                 `json:"total_dose_logs"`
	TotalSymptomLogs int                 `json:"total_symptom_logs"`
}

func NewExportService(medications ExportMedicationReader, doseLogs ExportDoseReader, symptomLogs ExportSymptomReader) *ExportService {
	return &ExportService{
		medications: medications,
		doseLogs:    doseLogs,
		symptomLogs: symptomLogs,
		now:         time.Now,
	}
}

func (service *ExportService) BuildDoseRows(location *time.Location) ([][]string, error) {
	if location == nil {
		location = time.UTC
	}

	medications, err := service.medications.List()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(medications))
	for _, medication := range medications {
		names[medication.ID.String()] = medication.Name
	}

	logs, err := service.doseLogs.List()
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(logs))
	for _, entry := range logs {
		name := names[entry.MedicationID.String()]
		if name == "" {
			name = entry.MedicationID.String()
		}
		takenAt := ""
		if entry.TakenAt != nil {
			takenAt = entry.TakenAt.In(location).Format(exportTimestampLayout)
		}
		onTime := ""
		if entry.OnTime != nil {
			onTime = csvYesNo(*entry.OnTime)
		}
		rows = append(rows, []string{
			name,
			entry.PlannedAt.In(location).Format(exportTimestampLayout),
			takenAt,
			entry.Status,
			onTime,
		})
	}
	return rows, nil
}

func (service *ExportService) BuildSymptomRows(location *time.Location) ([][]string, error) {
	if location == nil {
		location = time.UTC
	}

	logs, err := service.symptomLogs.List()
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(logs))
	for _, entry := range logs {
		rows = append(rows, []string{
			entry.OccurredAt.In(location).Format(exportTimestampLayout),
			strconv.Itoa(entry.Severity),
			joinTags(entry.Tags),
			entry.Text,
		})
	}
	return rows, nil
}

// BuildSummary is the fixed dose/symptom projection the SPA renders to
// PDF: per-medication trailing adherence plus recent symptoms.
func (service *ExportService) BuildSummary() (ExportSummary, error) {
	now := service.now()

	medications, err := service.medications.List()
	if err != nil {
		return ExportSummary{}, err
	}
	doseLogs, err := service.doseLogs.List()
	if err != nil {
		return ExportSummary{}, err
	}
	symptomLogs, err := service.symptomLogs.List()
	if err != nil {
		return ExportSummary{}, err
	}

	summaries := make([]MedicationSummary, 0, len(medications))
	for _, medication := range medications {
		adherence := TrailingAdherence(doseLogs, medication.ID, now)
		summaries = append(summaries, MedicationSummary{
			Name:      medication.Name,
			Dose:      medication.Dose,
			Unit:      medication.Unit,
			Taken:     adherence.Taken,
			Skipped:   adherence.Skipped,
			Adherence: adherence.Percent,
		})
	}

	windowStart := now.AddDate(0, 0, -adherenceWindowDays)
	recent := make([]models.SymptomLog, 0)
	for _, entry := range symptomLogs {
		if !entry.OccurredAt.Before(windowStart) {
			recent = append(recent, entry)
		}
	}

	return ExportSummary{
		GeneratedAt:      now,
		Medications:      summaries,
		RecentSymptoms:   recent,
		TotalDoseLogs:    len(doseLogs),
		TotalSymptomLogs: len(symptomLogs),
	}, nil
}

func csvYesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func joinTags(tags []string) string {
	return strings.Join(tags, "; ")
}
