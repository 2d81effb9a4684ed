package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinSymptomSeverity = 1
	MaxSymptomSeverity = 5
)

// SymptomLog stores one free-text symptom observation. Tags are
// derived from the text by keyword matching, never entered by hand.
type SymptomLog struct {
	ID         uuid.UUID `gorm:"primaryKey" json:"id"`
	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`
	Text       string    `json:"text"`
	Severity   int       `gorm:"not null;default:3" json:"severity"`
	Tags       []string  `gorm:"serializer:json" json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewSymptomLog(text string, severity int) SymptomLog {
	if severity < MinSymptomSeverity || severity > MaxSymptomSeverity {
		severity = 3
	}
	return SymptomLog{
		OccurredAt: time.Now(),
		Text:       text,
		Severity:   severity,
		Tags:       []string{},
	}
}

func (entry *SymptomLog) BeforeCreate(tx *gorm.DB) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now()
	}
	return nil
}
