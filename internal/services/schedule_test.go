package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medcompanion/medcompanion/internal/models"
)

func buildSchedule(medicationID uuid.UUID, recurrence string, times []string, weekdays []int) models.Schedule {
	return models.Schedule{
		ID:           uuid.New(),
		MedicationID: medicationID,
		Recurrence:   recurrence,
		Times:        times,
		Weekdays:     weekdays,
	}
}

func TestExpandSchedulesDaily(t *testing.T) {
	medicationID := uuid.New()
	schedule := buildSchedule(medicationID, models.RecurrenceDaily, []string{"20:00", "08:00"}, nil)
	date := time.Date(2026, 3, 4, 13, 45, 0, 0, time.UTC) // a Wednesday

	doses := ExpandSchedules([]models.Schedule{schedule}, date, time.UTC)
	if len(doses) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(doses))
	}
	if !doses[0].PlannedAt.Equal(time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected sorted first occurrence at 08:00, got %v", doses[0].PlannedAt)
	}
	if !doses[1].PlannedAt.Equal(time.Date(2026, 3, 4, 20, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected second occurrence at 20:00, got %v", doses[1].PlannedAt)
	}
	for _, dose := range doses {
		if dose.MedicationID != medicationID {
			t.Fatalf("expected medication %s, got %s", medicationID, dose.MedicationID)
		}
		if dose.PlannedAt.Second() != 0 || dose.PlannedAt.Nanosecond() != 0 {
			t.Fatalf("expected zeroed seconds, got %v", dose.PlannedAt)
		}
	}
}

func TestExpandSchedulesWeekdays(t *testing.T) {
	medicationID := uuid.New()
	schedule := buildSchedule(medicationID, models.RecurrenceWeekdays, []string{"09:30"}, []int{1, 3, 5})

	wednesday := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	if got := ExpandSchedules([]models.Schedule{schedule}, wednesday, time.UTC); len(got) != 1 {
		t.Fatalf("expected a matching weekday occurrence, got %d", len(got))
	}

	thursday := wednesday.AddDate(0, 0, 1)
	if got := ExpandSchedules([]models.Schedule{schedule}, thursday, time.UTC); len(got) != 0 {
		t.Fatalf("expected no occurrences on a non-configured weekday, got %d", len(got))
	}
}

func TestExpandSchedulesMalformedEntries(t *testing.T) {
	medicationID := uuid.New()
	tests := []struct {
		name     string
		schedule models.Schedule
	}{
		{name: "unknown recurrence", schedule: buildSchedule(medicationID, "monthly", []string{"08:00"}, nil)},
		{name: "unparsable time", schedule: buildSchedule(medicationID, models.RecurrenceDaily, []string{"25:99"}, nil)},
		{name: "empty weekday set", schedule: buildSchedule(medicationID, models.RecurrenceWeekdays, []string{"08:00"}, nil)},
	}

	date := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if got := ExpandSchedules([]models.Schedule{testCase.schedule}, date, time.UTC); len(got) != 0 {
				t.Fatalf("expected malformed schedule to expand to nothing, got %d", len(got))
			}
		})
	}
}

func TestExpandSchedulesUsesLocation(t *testing.T) {
	location := time.FixedZone("UTC+2", 2*60*60)
	schedule := buildSchedule(uuid.New(), models.RecurrenceDaily, []string{"08:00"}, nil)

	// Midnight UTC is already the next calendar day at UTC+2.
	date := time.Date(2026, 3, 4, 23, 0, 0, 0, time.UTC)
	doses := ExpandSchedules([]models.Schedule{schedule}, date, location)
	if len(doses) != 1 {
		t.Fatalf("expected one occurrence, got %d", len(doses))
	}
	want := time.Date(2026, 3, 5, 8, 0, 0, 0, location)
	if !doses[0].PlannedAt.Equal(want) {
		t.Fatalf("expected occurrence at %v, got %v", want, doses[0].PlannedAt)
	}
}

func TestOccurrenceKeyNormalizesToUTC(t *testing.T) {
	medicationID := uuid.New()
	location := time.FixedZone("UTC+3", 3*60*60)
	local := time.Date(2026, 3, 4, 11, 0, 0, 0, location)

	keyLocal := OccurrenceKey(medicationID, local)
	keyUTC := OccurrenceKey(medicationID, local.UTC())
	if keyLocal != keyUTC {
		t.Fatalf("expected identical keys, got %q and %q", keyLocal, keyUTC)
	}
}

func TestValidClockTimes(t *testing.T) {
	tests := []struct {
		name  string
		times []string
		want  []string
		ok    bool
	}{
		{name: "valid and deduplicated", times: []string{"08:00", "20:00", "08:00"}, want: []string{"08:00", "20:00"}, ok: true},
		{name: "trims whitespace", times: []string{" 08:00 "}, want: []string{"08:00"}, ok: true},
		{name: "rejects bad hour", times: []string{"24:00"}, ok: false},
		{name: "rejects missing minutes", times: []string{"08"}, ok: false},
		{name: "empty list is valid", times: nil, want: []string{}, ok: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got, ok := ValidClockTimes(testCase.times)
			if ok != testCase.ok {
				t.Fatalf("expected ok=%v, got %v", testCase.ok, ok)
			}
			if !ok {
				return
			}
			if len(got) != len(testCase.want) {
				t.Fatalf("expected %v, got %v", testCase.want, got)
			}
			for index := range got {
				if got[index] != testCase.want[index] {
					t.Fatalf("expected %v, got %v", testCase.want, got)
				}
			}
		})
	}
}
