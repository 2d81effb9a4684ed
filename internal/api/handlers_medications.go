package api

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/medcompanion/medcompanion/internal/services"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) GetMedications(c *fiber.Ctx) error {
	medications, err := handler.medicationService.ListMedications()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(medications)
}

func (handler *Handler) CreateMedication(c *fiber.Ctx) error {
	input := services.MedicationInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	medication, err := handler.medicationService.CreateMedication(input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(medication)
}

func (handler *Handler) UpdateMedication(c *fiber.Ctx) error {
	medicationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid medication id")
	}

	input := services.MedicationInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	medication, err := handler.medicationService.UpdateMedication(medicationID, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(medication)
}

// DeleteMedication cascades: every schedule referencing the medication
// goes with it, and pending reminders are reconciled away.
func (handler *Handler) DeleteMedication(c *fiber.Ctx) error {
	medicationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid medication id")
	}

	if err := handler.medicationService.DeleteMedication(medicationID); err != nil {
		return serviceError(c, err)
	}
	handler.reconcileReminders()
	return c.JSON(fiber.Map{"ok": true})
}

// reconcileReminders refreshes timer state after a mutation. A failure
// only delays reminders until the next periodic pass. Snoozes whose
// target is more than a day old are dead rows and get swept here.
func (handler *Handler) reconcileReminders() {
	cutoff := time.Now().Add(-24 * time.Hour)
	if err := handler.repositories.Snoozes.DeleteExpiredBefore(cutoff); err != nil {
		log.Printf("reminders: expired snooze sweep failed: %v", err)
	}
	if err := handler.reminders.Reconcile(context.Background()); err != nil {
		log.Printf("reminders: reconcile after mutation failed: %v", err)
	}
}
