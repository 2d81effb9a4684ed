package db

import (
	"github.com/medcompanion/medcompanion/internal/models"
	"gorm.io/gorm"
)

type SettingsRepository struct {
	database *gorm.DB
}

func NewSettingsRepository(database *gorm.DB) *SettingsRepository {
	return &SettingsRepository{database: database}
}

// Load returns the single settings row, creating it with defaults on
// first read. A missing row is never an error.
func (repo *SettingsRepository) Load() (models.Settings, error) {
	settings := models.DefaultSettings()
	if err := repo.database.FirstOrCreate(&settings, models.Settings{ID: settings.ID}).Error; err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

func (repo *SettingsRepository) Save(settings *models.Settings) error {
	return repo.database.Save(settings).Error
}
