package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/medcompanion/medcompanion/internal/models"
)

const DoseStatusPending = "pending"

// TodayDose is one row of the derived "today" view: a planned
// occurrence joined with its outcome, snooze state and risk estimate.
type TodayDose struct {
	MedicationID   uuid.UUID  `json:"medication_id"`
	MedicationName string     `json:"medication_name"`
	Dose           string     `json:"dose"`
	Unit           string     `json:"unit"`
	Color          string     `json:"color"`
	ScheduleID     uuid.UUID  `json:"schedule_id"`
	PlannedAt      time.Time  `json:"planned_at"`
	Status         string     `json:"status"`
	TakenAt        *time.Time `json:"taken_at,omitempty"`
	SnoozedUntil   *time.Time `json:"snoozed_until,omitempty"`
	Risk           float64    `json:"risk"`
	RiskLabel      string     `json:"risk_label"`
}

type TodayMedicationReader interface {
	List() ([]models.Medication, error)
}

type TodayScheduleReader interface {
	List() ([]models.Schedule, error)
}

type TodayDoseReader interface {
	List() ([]models.DoseLog, error)
}

type TodaySnoozeReader interface {
	List() ([]models.Snooze, error)
}

type TodayService struct {
	medications TodayMedicationReader
	schedules   TodayScheduleReader
	doseLogs    TodayDoseReader
	snoozes     TodaySnoozeReader
	now         func() time.Time
}

func NewTodayService(medications TodayMedicationReader, schedules TodayScheduleReader, doseLogs TodayDoseReader, snoozes TodaySnoozeReader) *TodayService {
	return &TodayService{
		medications: medications,
		schedules:   schedules,
		doseLogs:    doseLogs,
		snoozes:     snoozes,
		now:         time.Now,
	}
}

// BuildDay expands every schedule against the given date and joins the
// result with dose logs, snoozes and the per-medication risk estimate.
// The view is recomputed on every call, never stored.
func (service *TodayService) BuildDay(date time.Time, location *time.Location) ([]TodayDose, error) {
	medications, err := service.medications.List()
	if err != nil {
		return nil, err
	}
	schedules, err := service.schedules.List()
	if err != nil {
		return nil, err
	}
	logs, err := service.doseLogs.List()
	if err != nil {
		return nil, err
	}
	snoozes, err := service.snoozes.List()
	if err != nil {
		return nil, err
	}

	medicationsByID := make(map[uuid.UUID]models.Medication, len(medications))
	for _, medication := range medications {
		medicationsByID[medication.ID] = medication
	}
	logsByKey := make(map[string]models.DoseLog, len(logs))
	for _, entry := range logs {
		logsByKey[OccurrenceKey(entry.MedicationID, entry.PlannedAt)] = entry
	}
	snoozesByKey := make(map[string]models.Snooze, len(snoozes))
	for _, snooze := range snoozes {
		snoozesByKey[OccurrenceKey(snooze.MedicationID, snooze.PlannedAt)] = snooze
	}

	now := service.now()
	isWeekend := date.Weekday() == time.Saturday || date.Weekday() == time.Sunday

	rows := make([]TodayDose, 0)
	for _, occurrence := range ExpandSchedules(schedules, date, location) {
		medication, known := medicationsByID[occurrence.MedicationID]
		if !known {
			continue
		}

		risk := RiskScore(RecentMisses(logs, occurrence.MedicationID, now), occurrence.PlannedAt.Hour(), isWeekend)
		row := TodayDose{
			MedicationID:   occurrence.MedicationID,
			MedicationName: medication.Name,
			Dose:           medication.Dose,
			Unit:           medication.Unit,
			Color:          medication.Color,
			ScheduleID:     occurrence.ScheduleID,
			PlannedAt:      occurrence.PlannedAt,
			Status:         DoseStatusPending,
			Risk:           risk,
			RiskLabel:      RiskLabel(risk),
		}

		if entry, logged := logsByKey[occurrence.Key()]; logged {
			row.Status = entry.Status
			row.TakenAt = entry.TakenAt
		} else if snooze, snoozed := snoozesByKey[occurrence.Key()]; snoozed {
			until := snooze.Until
			row.SnoozedUntil = &until
		}

		rows = append(rows, row)
	}
	return rows, nil
}
