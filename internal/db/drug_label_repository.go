package db

import (
	"github.com/medcompanion/medcompanion/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DrugLabelRepository struct {
	database *gorm.DB
}

func NewDrugLabelRepository(database *gorm.DB) *DrugLabelRepository {
	return &DrugLabelRepository{database: database}
}

func (repo *DrugLabelRepository) FindByName(name string) (models.DrugLabel, bool, error) {
	label := models.DrugLabel{}
	result := repo.database.Where("name = ?", name).Limit(1).Find(&label)
	if result.Error != nil {
		return models.DrugLabel{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DrugLabel{}, false, nil
	}
	return label, true, nil
}

// Upsert overwrites the cached label for the name. Only successful
// lookups are ever written; failures stay uncached so retries re-query.
func (repo *DrugLabelRepository) Upsert(label *models.DrugLabel) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		UpdateAll: true,
	}).Create(label).Error
}
