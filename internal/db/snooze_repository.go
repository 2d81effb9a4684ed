package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/medcompanion/medcompanion/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SnoozeRepository struct {
	database *gorm.DB
}

func NewSnoozeRepository(database *gorm.DB) *SnoozeRepository {
	return &SnoozeRepository{database: database}
}

func (repo *SnoozeRepository) List() ([]models.Snooze, error) {
	snoozes := make([]models.Snooze, 0)
	if err := repo.database.Order("until ASC, id ASC").Find(&snoozes).Error; err != nil {
		return nil, err
	}
	return snoozes, nil
}

// Upsert overwrites any prior snooze for the same occurrence key.
func (repo *SnoozeRepository) Upsert(snooze *models.Snooze) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "medication_id"}, {Name: "planned_at"}},
		DoUpdates: clause.AssignmentColumns([]string{"until"}),
	}).Create(snooze).Error
}

func (repo *SnoozeRepository) DeleteByOccurrence(medicationID uuid.UUID, plannedAt time.Time) error {
	return repo.database.
		Where("medication_id = ? AND planned_at = ?", medicationID, plannedAt).
		Delete(&models.Snooze{}).Error
}

func (repo *SnoozeRepository) DeleteExpiredBefore(cutoff time.Time) error {
	return repo.database.Where("until < ?", cutoff).Delete(&models.Snooze{}).Error
}
