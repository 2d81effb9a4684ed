package db

import (
	"github.com/google/uuid"
	"github.com/medcompanion/medcompanion/internal/models"
	"gorm.io/gorm"
)

type MedicationRepository struct {
	database *gorm.DB
}

func NewMedicationRepository(database *gorm.DB) *MedicationRepository {
	return &MedicationRepository{database: database}
}

func (repo *MedicationRepository) List() ([]models.Medication, error) {
	medications := make([]models.Medication, 0)
	if err := repo.database.Order("name ASC, created_at ASC").Find(&medications).Error; err != nil {
		return nil, err
	}
	return medications, nil
}

func (repo *MedicationRepository) FindByID(medicationID uuid.UUID) (models.Medication, bool, error) {
	medication := models.Medication{}
	result := repo.database.Where("id = ?", medicationID).Limit(1).Find(&medication)
	if result.Error != nil {
		return models.Medication{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Medication{}, false, nil
	}
	return medication, true, nil
}

func (repo *MedicationRepository) Create(medication *models.Medication) error {
	return repo.database.Create(medication).Error
}

func (repo *MedicationRepository) Save(medication *models.Medication) error {
	return repo.database.Save(medication).Error
}

// DeleteCascade removes the medication together with every schedule and
// snooze that references it. Dose and symptom history is kept.
func (repo *MedicationRepository) DeleteCascade(medicationID uuid.UUID) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("medication_id = ?", medicationID).Delete(&models.Schedule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("medication_id = ?", medicationID).Delete(&models.Snooze{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", medicationID).Delete(&models.Medication{}).Error
	})
}
