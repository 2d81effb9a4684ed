package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RecurrenceDaily    = "daily"
	RecurrenceWeekdays = "weekdays"
)

// Schedule owns an ordered set of HH:MM times for one medication.
// A schedule with an empty time set is invalid and is never persisted.
type Schedule struct {
	ID           uuid.UUID `gorm:"primaryKey" json:"id"`
	MedicationID uuid.UUID `gorm:"index;not null" json:"medication_id"`
	Times        []string  `gorm:"serializer:json" json:"times"`
	Recurrence   string    `gorm:"not null;default:daily" json:"recurrence"`
	Weekdays     []int     `gorm:"serializer:json" json:"weekdays"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewSchedule(medicationID uuid.UUID) Schedule {
	return Schedule{
		MedicationID: medicationID,
		Times:        []string{"08:00"},
		Recurrence:   RecurrenceDaily,
		Weekdays:     []int{},
	}
}

func (schedule *Schedule) BeforeCreate(tx *gorm.DB) error {
	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}
	if schedule.Recurrence == "" {
		schedule.Recurrence = RecurrenceDaily
	}
	return nil
}
