package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultMedicationColor = "#8ab4ff"

type Medication struct {
	ID        uuid.UUID `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Dose      string    `json:"dose"`
	Unit      string    `json:"unit"`
	Notes     string    `json:"notes"`
	Color     string    `gorm:"not null" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMedication fills defaults for fields the caller left zero.
func NewMedication(name string) Medication {
	return Medication{
		Name:  name,
		Color: DefaultMedicationColor,
	}
}

func (medication *Medication) BeforeCreate(tx *gorm.DB) error {
	if medication.ID == uuid.Nil {
		medication.ID = uuid.New()
	}
	if medication.Color == "" {
		medication.Color = DefaultMedicationColor
	}
	return nil
}
