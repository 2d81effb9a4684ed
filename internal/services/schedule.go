package services

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medcompanion/medcompanion/internal/models"
)

// PlannedDose is one scheduled dose instance for a specific date,
// derived from a schedule and never persisted.
type PlannedDose struct {
	MedicationID uuid.UUID `json:"medication_id"`
	ScheduleID   uuid.UUID `json:"schedule_id"`
	PlannedAt    time.Time `json:"planned_at"`
}

// OccurrenceKey identifies one planned dose for logging, snoozing and
// reminder bookkeeping.
func OccurrenceKey(medicationID uuid.UUID, plannedAt time.Time) string {
	return medicationID.String() + "|" + plannedAt.UTC().Format(time.RFC3339)
}

func (dose PlannedDose) Key() string {
	return OccurrenceKey(dose.MedicationID, dose.PlannedAt)
}

// ExpandSchedules maps schedules onto one calendar date. Daily
// schedules always match; weekday schedules match when the date's
// weekday is in the configured set. Malformed rules and unparsable
// times degrade to no occurrences for that entry.
func ExpandSchedules(schedules []models.Schedule, date time.Time, location *time.Location) []PlannedDose {
	if location == nil {
		location = time.UTC
	}
	day := date.In(location)
	weekday := int(day.Weekday())

	doses := make([]PlannedDose, 0)
	for _, schedule := range schedules {
		if !scheduleMatchesWeekday(schedule, weekday) {
			continue
		}
		for _, rawTime := range sortedTimes(schedule.Times) {
			hour, minute, ok := parseClockTime(rawTime)
			if !ok {
				continue
			}
			doses = append(doses, PlannedDose{
				MedicationID: schedule.MedicationID,
				ScheduleID:   schedule.ID,
				PlannedAt:    time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, location),
			})
		}
	}
	return doses
}

func scheduleMatchesWeekday(schedule models.Schedule, weekday int) bool {
	switch schedule.Recurrence {
	case models.RecurrenceDaily:
		return true
	case models.RecurrenceWeekdays:
		for _, configured := range schedule.Weekdays {
			if configured == weekday {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func sortedTimes(times []string) []string {
	sorted := make([]string, len(times))
	copy(sorted, times)
	sort.Strings(sorted)
	return sorted
}

func parseClockTime(value string) (int, int, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// ValidClockTimes reports whether every entry parses as HH:MM and
// drops duplicates, preserving order of first occurrence.
func ValidClockTimes(times []string) ([]string, bool) {
	seen := make(map[string]struct{}, len(times))
	cleaned := make([]string, 0, len(times))
	for _, value := range times {
		trimmed := strings.TrimSpace(value)
		if _, _, ok := parseClockTime(trimmed); !ok {
			return nil, false
		}
		if _, duplicate := seen[trimmed]; duplicate {
			continue
		}
		seen[trimmed] = struct{}{}
		cleaned = append(cleaned, trimmed)
	}
	return cleaned, true
}
