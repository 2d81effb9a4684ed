package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/medcompanion/medcompanion/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DoseLogRepository struct {
	database *gorm.DB
}

func NewDoseLogRepository(database *gorm.DB) *DoseLogRepository {
	return &DoseLogRepository{database: database}
}

func (repo *DoseLogRepository) List() ([]models.DoseLog, error) {
	logs := make([]models.DoseLog, 0)
	if err := repo.database.Order("planned_at ASC, id ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (repo *DoseLogRepository) ListByMedicationSince(medicationID uuid.UUID, since time.Time) ([]models.DoseLog, error) {
	logs := make([]models.DoseLog, 0)
	if err := repo.database.
		Where("medication_id = ? AND planned_at >= ?", medicationID, since).
		Order("planned_at ASC, id ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (repo *DoseLogRepository) ListRange(from time.Time, to time.Time) ([]models.DoseLog, error) {
	logs := make([]models.DoseLog, 0)
	if err := repo.database.
		Where("planned_at >= ? AND planned_at < ?", from, to).
		Order("planned_at ASC, id ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (repo *DoseLogRepository) FindByOccurrence(medicationID uuid.UUID, plannedAt time.Time) (models.DoseLog, bool, error) {
	entry := models.DoseLog{}
	result := repo.database.
		Where("medication_id = ? AND planned_at = ?", medicationID, plannedAt).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.DoseLog{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DoseLog{}, false, nil
	}
	return entry, true, nil
}

// Upsert keeps at most one row per (medication_id, planned_at) so a
// re-logged occurrence replaces its outcome instead of double-counting.
func (repo *DoseLogRepository) Upsert(entry *models.DoseLog) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "medication_id"}, {Name: "planned_at"}},
		DoUpdates: clause.AssignmentColumns([]string{"taken_at", "status", "on_time"}),
	}).Create(entry).Error
}
