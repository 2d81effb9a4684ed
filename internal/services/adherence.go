package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/medcompanion/medcompanion/internal/models"
)

const adherenceWindowDays = 7

// AdherenceStats summarizes a medication's trailing dose window.
type AdherenceStats struct {
	Taken   int `json:"taken"`
	Skipped int `json:"skipped"`
	Percent int `json:"percent"`
}

// TrailingAdherence computes taken/(taken+skipped) over dose log
// entries whose planned time falls inside the trailing window ending at
// now. With no due doses the percentage is defined as 100.
func TrailingAdherence(logs []models.DoseLog, medicationID uuid.UUID, now time.Time) AdherenceStats {
	windowStart := now.AddDate(0, 0, -adherenceWindowDays)

	stats := AdherenceStats{}
	for _, entry := range logs {
		if entry.MedicationID != medicationID {
			continue
		}
		if entry.PlannedAt.Before(windowStart) || entry.PlannedAt.After(now) {
			continue
		}
		switch entry.Status {
		case models.DoseStatusTaken:
			stats.Taken++
		case models.DoseStatusSkipped:
			stats.Skipped++
		}
	}

	due := stats.Taken + stats.Skipped
	if due == 0 {
		stats.Percent = 100
		return stats
	}
	stats.Percent = int(float64(stats.Taken)/float64(due)*100 + 0.5)
	return stats
}

// RecentMisses counts skipped doses for the medication inside the
// trailing window. Skips feed the risk scorer as misses.
func RecentMisses(logs []models.DoseLog, medicationID uuid.UUID, now time.Time) int {
	windowStart := now.AddDate(0, 0, -adherenceWindowDays)

	misses := 0
	for _, entry := range logs {
		if entry.MedicationID != medicationID || entry.Status != models.DoseStatusSkipped {
			continue
		}
		if entry.PlannedAt.Before(windowStart) || entry.PlannedAt.After(now) {
			continue
		}
		misses++
	}
	return misses
}
