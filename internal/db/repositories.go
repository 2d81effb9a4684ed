package db

import "gorm.io/gorm"

type Repositories struct {
	Medications *MedicationRepository
	Schedules   *ScheduleRepository
	DoseLogs    *DoseLogRepository
	SymptomLogs *SymptomLogRepository
	Snoozes     *SnoozeRepository
	Settings    *SettingsRepository
	DrugLabels  *DrugLabelRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Medications: NewMedicationRepository(database),
		Schedules:   NewScheduleRepository(database),
		DoseLogs:    NewDoseLogRepository(database),
		SymptomLogs: NewSymptomLogRepository(database),
		Snoozes:     NewSnoozeRepository(database),
		Settings:    NewSettingsRepository(database),
		DrugLabels:  NewDrugLabelRepository(database),
	}
}
