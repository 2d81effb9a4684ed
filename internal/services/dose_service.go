package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medcompanion/medcompanion/internal/models"
)

var (
	ErrDoseLogSaveFailed = errors.New("save dose log failed")
	ErrSnoozeSaveFailed  = errors.New("save snooze failed")
	ErrInvalidSnooze     = errors.New("invalid snooze duration")
)

type DoseLogRepository interface {
	List() ([]models.DoseLog, error)
	ListRange(from time.Time, to time.Time) ([]models.DoseLog, error)
	FindByOccurrence(medicationID uuid.UUID, plannedAt time.Time) (models.DoseLog, bool, error)
	Upsert(entry *models.DoseLog) error
}

type SnoozeRepository interface {
	List() ([]models.Snooze, error)
	Upsert(snooze *models.Snooze) error
	DeleteByOccurrence(medicationID uuid.UUID, plannedAt time.Time) error
}

type DoseService struct {
	doseLogs DoseLogRepository
	snoozes  SnoozeRepository
	now      func() time.Time
}

func NewDoseService(doseLogs DoseLogRepository, snoozes SnoozeRepository) *DoseService {
	return &DoseService{
		doseLogs: doseLogs,
		snoozes:  snoozes,
		now:      time.Now,
	}
}

// TakeDose records the occurrence as taken (upsert, so re-logging the
// same occurrence never double-counts) and clears its snooze.
func (service *DoseService) TakeDose(medicationID uuid.UUID, plannedAt time.Time) (models.DoseLog, error) {
	now := service.now()
	onTime := true
	entry := models.NewDoseLog(medicationID, plannedAt)
	entry.TakenAt = &now
	entry.Status = models.DoseStatusTaken
	entry.OnTime = &onTime

	if err := service.doseLogs.Upsert(&entry); err != nil {
		return models.DoseLog{}, fmt.Errorf("%w: %v", ErrDoseLogSaveFailed, err)
	}
	if err := service.snoozes.DeleteByOccurrence(medicationID, plannedAt); err != nil {
		return models.DoseLog{}, fmt.Errorf("%w: %v", ErrSnoozeSaveFailed, err)
	}
	return entry, nil
}

func (service *DoseService) SkipDose(medicationID uuid.UUID, plannedAt time.Time) (models.DoseLog, error) {
	entry := models.NewDoseLog(medicationID, plannedAt)
	entry.Status = models.DoseStatusSkipped

	if err := service.doseLogs.Upsert(&entry); err != nil {
		return models.DoseLog{}, fmt.Errorf("%w: %v", ErrDoseLogSaveFailed, err)
	}
	if err := service.snoozes.DeleteByOccurrence(medicationID, plannedAt); err != nil {
		return models.DoseLog{}, fmt.Errorf("%w: %v", ErrSnoozeSaveFailed, err)
	}
	return entry, nil
}

// SnoozeDose records now+minutes as the snooze-until for the
// occurrence, overwriting any prior snooze for the same key.
func (service *DoseService) SnoozeDose(medicationID uuid.UUID, plannedAt time.Time, minutes int) (time.Time, error) {
	if minutes <= 0 || minutes > 24*60 {
		return time.Time{}, ErrInvalidSnooze
	}

	until := service.now().Add(time.Duration(minutes) * time.Minute)
	snooze := models.Snooze{
		MedicationID: medicationID,
		PlannedAt:    plannedAt,
		Until:        until,
	}
	if err := service.snoozes.Upsert(&snooze); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrSnoozeSaveFailed, err)
	}
	return until, nil
}

func (service *DoseService) FetchAllLogs() ([]models.DoseLog, error) {
	return service.doseLogs.List()
}

func (service *DoseService) FetchLogsForDay(day time.Time, location *time.Location) ([]models.DoseLog, error) {
	if location == nil {
		location = time.UTC
	}
	localized := day.In(location)
	dayStart := time.Date(localized.Year(), localized.Month(), localized.Day(), 0, 0, 0, 0, location)
	return service.doseLogs.ListRange(dayStart, dayStart.AddDate(0, 0, 1))
}

func (service *DoseService) FetchSnoozes() ([]models.Snooze, error) {
	return service.snoozes.List()
}
