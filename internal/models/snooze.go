package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Snooze records a user-requested delay for one planned dose
// occurrence. Only the snooze map survives a restart; armed timers are
// re-derived from it.
type Snooze struct {
	ID           uuid.UUID `gorm:"primaryKey" json:"id"`
	MedicationID uuid.UUID `gorm:"not null;uniqueIndex:uidx_snooze_med_planned" json:"medication_id"`
	PlannedAt    time.Time `gorm:"not null;uniqueIndex:uidx_snooze_med_planned" json:"planned_at"`
	Until        time.Time `gorm:"not null" json:"until"`
	CreatedAt    time.Time `json:"created_at"`
}

func (snooze *Snooze) BeforeCreate(tx *gorm.DB) error {
	if snooze.ID == uuid.Nil {
		snooze.ID = uuid.New()
	}
	return nil
}
