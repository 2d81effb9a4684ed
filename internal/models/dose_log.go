package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DoseStatusTaken   = "taken"
	DoseStatusSkipped = "skipped"
)

// DoseLog records the outcome of one planned dose occurrence. At most
// one row exists per (medication_id, planned_at) pair; writes go
// through an upsert so adherence is never double-counted.
type DoseLog struct {
	ID           uuid.UUID  `gorm:"primaryKey" json:"id"`
	MedicationID uuid.UUID  `gorm:"not null;uniqueIndex:uidx_med_planned" json:"medication_id"`
	PlannedAt    time.Time  `gorm:"not null;uniqueIndex:uidx_med_planned" json:"planned_at"`
	TakenAt      *time.Time `json:"taken_at"`
	Status       string     `gorm:"not null;default:taken" json:"status"`
	OnTime       *bool      `json:"on_time"`
	CreatedAt    time.Time  `json:"created_at"`
}

func NewDoseLog(medicationID uuid.UUID, plannedAt time.Time) DoseLog {
	return DoseLog{
		MedicationID: medicationID,
		PlannedAt:    plannedAt,
		Status:       DoseStatusTaken,
	}
}

func (entry *DoseLog) BeforeCreate(tx *gorm.DB) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return nil
}
