package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medcompanion/medcompanion/internal/models"
)

var (
	ErrInvalidSymptomText     = errors.New("invalid symptom text")
	ErrInvalidSymptomSeverity = errors.New("invalid symptom severity")
	ErrSymptomSaveFailed      = errors.New("save symptom failed")
)

const maxSymptomTextLength = 2000

type SymptomLogRepository interface {
	List() ([]models.SymptomLog, error)
	ListSince(since time.Time) ([]models.SymptomLog, error)
	Create(entry *models.SymptomLog) error
	Delete(entryID uuid.UUID) error
}

type SymptomService struct {
	symptomLogs SymptomLogRepository
}

func NewSymptomService(symptomLogs SymptomLogRepository) *SymptomService {
	return &SymptomService{symptomLogs: symptomLogs}
}

func (service *SymptomService) ListSymptoms() ([]models.SymptomLog, error) {
	return service.symptomLogs.List()
}

// LogSymptom stores the entry with topic tags derived from its text.
func (service *SymptomService) LogSymptom(text string, severity int, occurredAt time.Time) (models.SymptomLog, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxSymptomTextLength {
		return models.SymptomLog{}, ErrInvalidSymptomText
	}
	if severity < models.MinSymptomSeverity || severity > models.MaxSymptomSeverity {
		return models.SymptomLog{}, ErrInvalidSymptomSeverity
	}

	entry := models.NewSymptomLog(text, severity)
	if !occurredAt.IsZero() {
		entry.OccurredAt = occurredAt
	}
	entry.Tags = SymptomTags(text)

	if err := service.symptomLogs.Create(&entry); err != nil {
		return models.SymptomLog{}, fmt.Errorf("%w: %v", ErrSymptomSaveFailed, err)
	}
	return entry, nil
}

func (service *SymptomService) DeleteSymptom(entryID uuid.UUID) error {
	return service.symptomLogs.Delete(entryID)
}
