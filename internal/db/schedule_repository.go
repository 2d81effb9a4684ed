package db

import (
	"github.com/google/uuid"
	"github.com/medcompanion/medcompanion/internal/models"
	"gorm.io/gorm"
)

type ScheduleRepository struct {
	database *gorm.DB
}

func NewScheduleRepository(database *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{database: database}
}

func (repo *ScheduleRepository) List() ([]models.Schedule, error) {
	schedules := make([]models.Schedule, 0)
	if err := repo.database.Order("created_at ASC, id ASC").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (repo *ScheduleRepository) ListByMedication(medicationID uuid.UUID) ([]models.Schedule, error) {
	schedules := make([]models.Schedule, 0)
	if err := repo.database.
		Where("medication_id = ?", medicationID).
		Order("created_at ASC, id ASC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (repo *ScheduleRepository) FindByID(scheduleID uuid.UUID) (models.Schedule, bool, error) {
	schedule := models.Schedule{}
	result := repo.database.Where("id = ?", scheduleID).Limit(1).Find(&schedule)
	if result.Error != nil {
		return models.Schedule{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Schedule{}, false, nil
	}
	return schedule, true, nil
}

func (repo *ScheduleRepository) Create(schedule *models.Schedule) error {
	return repo.database.Create(schedule).Error
}

func (repo *ScheduleRepository) Save(schedule *models.Schedule) error {
	return repo.database.Save(schedule).Error
}

func (repo *ScheduleRepository) Delete(scheduleID uuid.UUID) error {
	return repo.database.Where("id = ?", scheduleID).Delete(&models.Schedule{}).Error
}
