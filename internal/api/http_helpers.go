package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/medcompanion/medcompanion/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	value, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, false
	}
	return value, true
}

func parseQueryUUID(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}

// serviceError maps service failures to short, non-technical messages.
// Raw storage or transport text never reaches the client.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrMedicationNotFound):
		return apiError(c, fiber.StatusNotFound, "medication not found")
	case errors.Is(err, services.ErrScheduleNotFound):
		return apiError(c, fiber.StatusNotFound, "schedule not found")
	case errors.Is(err, services.ErrInvalidMedicationName),
		errors.Is(err, services.ErrInvalidMedicationColor),
		errors.Is(err, services.ErrInvalidScheduleTimes),
		errors.Is(err, services.ErrInvalidRecurrence),
		errors.Is(err, services.ErrInvalidSymptomText),
		errors.Is(err, services.ErrInvalidSymptomSeverity),
		errors.Is(err, services.ErrInvalidSnooze),
		errors.Is(err, services.ErrInvalidTimezone),
		errors.Is(err, services.ErrInvalidTheme):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrMedicationSaveFailed),
		errors.Is(err, services.ErrScheduleSaveFailed),
		errors.Is(err, services.ErrDoseLogSaveFailed),
		errors.Is(err, services.ErrSnoozeSaveFailed),
		errors.Is(err, services.ErrSymptomSaveFailed),
		errors.Is(err, services.ErrSettingsSaveFailed):
		return apiError(c, fiber.StatusInternalServerError, "could not save data")
	default:
		return apiError(c, fiber.StatusInternalServerError, "could not load data")
	}
}
