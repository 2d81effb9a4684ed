package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/medcompanion/medcompanion/internal/services"
)

func (handler *Handler) GetSchedules(c *fiber.Ctx) error {
	if raw := c.Query("medication_id"); raw != "" {
		medicationID, err := parseQueryUUID(raw)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid medication id")
		}
		schedules, listErr := handler.medicationService.ListSchedulesForMedication(medicationID)
		if listErr != nil {
			return serviceError(c, listErr)
		}
		return c.JSON(schedules)
	}

	schedules, err := handler.medicationService.ListSchedules()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(schedules)
}

func (handler *Handler) CreateSchedule(c *fiber.Ctx) error {
	input := services.ScheduleInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	schedule, err := handler.medicationService.CreateSchedule(input)
	if err != nil {
		return serviceError(c, err)
	}
	handler.reconcileReminders()
	return c.Status(fiber.StatusCreated).JSON(schedule)
}

func (handler *Handler) UpdateSchedule(c *fiber.Ctx) error {
	scheduleID, ok := parseUUIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid schedule id")
	}

	input := services.ScheduleInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	schedule, deleted, err := handler.medicationService.UpdateSchedule(scheduleID, input)
	if err != nil {
		return serviceError(c, err)
	}
	handler.reconcileReminders()
	if deleted {
		return c.JSON(fiber.Map{"deleted": true})
	}
	return c.JSON(schedule)
}

func (handler *Handler) DeleteSchedule(c *fiber.Ctx) error {
	scheduleID, ok := parseUUIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid schedule id")
	}

	if err := handler.medicationService.DeleteSchedule(scheduleID); err != nil {
		return serviceError(c, err)
	}
	handler.reconcileReminders()
	return c.JSON(fiber.Map{"ok": true})
}
