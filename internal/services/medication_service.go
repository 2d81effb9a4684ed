package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/medcompanion/medcompanion/internal/models"
)

var (
	ErrMedicationNotFound     = errors.New("medication not found")
	ErrInvalidMedicationName  = errors.New("invalid medication name")
	ErrInvalidMedicationColor = errors.New("invalid medication color")
	ErrScheduleNotFound       = errors.New("schedule not found")
	ErrInvalidScheduleTimes   = errors.New("invalid schedule times")
	ErrInvalidRecurrence      = errors.New("invalid recurrence rule")
	ErrMedicationSaveFailed   = errors.New("save medication failed")
	ErrScheduleSaveFailed     = errors.New("save schedule failed")
)

const maxMedicationNameLength = 120

var hexMedicationColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type MedicationRepository interface {
	List() ([]models.Medication, error)
	FindByID(medicationID uuid.UUID) (models.Medication, bool, error)
	Create(medication *models.Medication) error
	Save(medication *models.Medication) error
	DeleteCascade(medicationID uuid.UUID) error
}

type MedicationScheduleRepository interface {
	List() ([]models.Schedule, error)
	ListByMedication(medicationID uuid.UUID) ([]models.Schedule, error)
	FindByID(scheduleID uuid.UUID) (models.Schedule, bool, error)
	Create(schedule *models.Schedule) error
	Save(schedule *models.Schedule) error
	Delete(scheduleID uuid.UUID) error
}

type MedicationService struct {
	medications MedicationRepository
	schedules   MedicationScheduleRepository
}

type MedicationInput struct {
	Name  string `json:"name"`
	Dose  string `json:"dose"`
	Unit  string `json:"unit"`
	Notes string `json:"notes"`
	Color string `json:"color"`
}

type ScheduleInput struct {
	MedicationID uuid.UUID `json:"medication_id"`
	Times        []string  `json:"times"`
	Recurrence   string    `json:"recurrence"`
	Weekdays     []int     `json:"weekdays"`
}

func NewMedicationService(medications MedicationRepository, schedules MedicationScheduleRepository) *MedicationService {
	return &MedicationService{
		medications: medications,
		schedules:   schedules,
	}
}

func (service *MedicationService) ListMedications() ([]models.Medication, error) {
	return service.medications.List()
}

func (service *MedicationService) FindMedication(medicationID uuid.UUID) (models.Medication, error) {
	medication, found, err := service.medications.FindByID(medicationID)
	if err != nil {
		return models.Medication{}, err
	}
	if !found {
		return models.Medication{}, ErrMedicationNotFound
	}
	return medication, nil
}

func (service *MedicationService) CreateMedication(input MedicationInput) (models.Medication, error) {
	medication := models.NewMedication(strings.TrimSpace(input.Name))
	if err := applyMedicationInput(&medication, input); err != nil {
		return models.Medication{}, err
	}
	if err := service.medications.Create(&medication); err != nil {
		return models.Medication{}, fmt.Errorf("%w: %v", ErrMedicationSaveFailed, err)
	}
	return medication, nil
}

func (service *MedicationService) UpdateMedication(medicationID uuid.UUID, input MedicationInput) (models.Medication, error) {
	medication, err := service.FindMedication(medicationID)
	if err != nil {
		return models.Medication{}, err
	}
	if err := applyMedicationInput(&medication, input); err != nil {
		return models.Medication{}, err
	}
	if err := service.medications.Save(&medication); err != nil {
		return models.Medication{}, fmt.Errorf("%w: %v", ErrMedicationSaveFailed, err)
	}
	return medication, nil
}

// DeleteMedication removes the medication and every schedule that
// references it, so no orphaned schedules remain.
func (service *MedicationService) DeleteMedication(medicationID uuid.UUID) error {
	if _, err := service.FindMedication(medicationID); err != nil {
		return err
	}
	return service.medications.DeleteCascade(medicationID)
}

func (service *MedicationService) ListSchedules() ([]models.Schedule, error) {
	return service.schedules.List()
}

func (service *MedicationService) ListSchedulesForMedication(medicationID uuid.UUID) ([]models.Schedule, error) {
	return service.schedules.ListByMedication(medicationID)
}

func (service *MedicationService) CreateSchedule(input ScheduleInput) (models.Schedule, error) {
	if _, err := service.FindMedication(input.MedicationID); err != nil {
		return models.Schedule{}, err
	}

	schedule := models.NewSchedule(input.MedicationID)
	if err := applyScheduleInput(&schedule, input); err != nil {
		return models.Schedule{}, err
	}
	if err := service.schedules.Create(&schedule); err != nil {
		return models.Schedule{}, fmt.Errorf("%w: %v", ErrScheduleSaveFailed, err)
	}
	return schedule, nil
}

// UpdateSchedule applies new times and recurrence. An update that
// empties the time set deletes the schedule instead of persisting it
// empty.
func (service *MedicationService) UpdateSchedule(scheduleID uuid.UUID, input ScheduleInput) (models.Schedule, bool, error) {
	schedule, found, err := service.schedules.FindByID(scheduleID)
	if err != nil {
		return models.Schedule{}, false, err
	}
	if !found {
		return models.Schedule{}, false, ErrScheduleNotFound
	}

	if len(input.Times) == 0 {
		if err := service.schedules.Delete(scheduleID); err != nil {
			return models.Schedule{}, false, fmt.Errorf("%w: %v", ErrScheduleSaveFailed, err)
		}
		return models.Schedule{}, true, nil
	}

	input.MedicationID = schedule.MedicationID
	if err := applyScheduleInput(&schedule, input); err != nil {
		return models.Schedule{}, false, err
	}
	if err := service.schedules.Save(&schedule); err != nil {
		return models.Schedule{}, false, fmt.Errorf("%w: %v", ErrScheduleSaveFailed, err)
	}
	return schedule, false, nil
}

func (service *MedicationService) DeleteSchedule(scheduleID uuid.UUID) error {
	_, found, err := service.schedules.FindByID(scheduleID)
	if err != nil {
		return err
	}
	if !found {
		return ErrScheduleNotFound
	}
	return service.schedules.Delete(scheduleID)
}

func applyMedicationInput(medication *models.Medication, input MedicationInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > maxMedicationNameLength {
		return ErrInvalidMedicationName
	}

	color := strings.TrimSpace(input.Color)
	if color == "" {
		color = models.DefaultMedicationColor
	}
	if !hexMedicationColorPattern.MatchString(color) {
		return ErrInvalidMedicationColor
	}

	medication.Name = name
	medication.Dose = strings.TrimSpace(input.Dose)
	medication.Unit = strings.TrimSpace(input.Unit)
	medication.Notes = strings.TrimSpace(input.Notes)
	medication.Color = color
	return nil
}

func applyScheduleInput(schedule *models.Schedule, input ScheduleInput) error {
	times, ok := ValidClockTimes(input.Times)
	if !ok || len(times) == 0 {
		return ErrInvalidScheduleTimes
	}

	recurrence := strings.TrimSpace(input.Recurrence)
	if recurrence == "" {
		recurrence = models.RecurrenceDaily
	}
	weekdays := make([]int, 0, len(input.Weekdays))
	switch recurrence {
	case models.RecurrenceDaily:
	case models.RecurrenceWeekdays:
		for _, weekday := range input.Weekdays {
			if weekday < 0 || weekday > 6 {
				return ErrInvalidRecurrence
			}
			weekdays = append(weekdays, weekday)
		}
	default:
		return ErrInvalidRecurrence
	}

	schedule.Times = times
	schedule.Recurrence = recurrence
	schedule.Weekdays = weekdays
	return nil
}
