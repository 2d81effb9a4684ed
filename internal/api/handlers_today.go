package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/medcompanion/medcompanion/internal/services"
)

// GetToday returns the derived day view: every planned occurrence for
// the requested date joined with its log, snooze and risk state.
func (handler *Handler) GetToday(c *fiber.Ctx) error {
	date := time.Now().In(handler.location)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, handler.location)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
		date = parsed
	}

	doses, err := handler.todayService.BuildDay(date, handler.location)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(doses)
}

type doseActionRequest struct {
	MedicationID uuid.UUID `json:"medication_id"`
	PlannedAt    time.Time `json:"planned_at"`
}

type snoozeRequest struct {
	MedicationID uuid.UUID `json:"medication_id"`
	PlannedAt    time.Time `json:"planned_at"`
	Minutes      int       `json:"minutes"`
}

func parseDoseAction(c *fiber.Ctx, request *doseActionRequest) (int, string) {
	if err := c.BodyParser(request); err != nil {
		return fiber.StatusBadRequest, "invalid request body"
	}
	if request.MedicationID == uuid.Nil {
		return fiber.StatusBadRequest, "medication_id is required"
	}
	if request.PlannedAt.IsZero() {
		return fiber.StatusBadRequest, "planned_at is required"
	}
	return 0, ""
}

func (handler *Handler) TakeDose(c *fiber.Ctx) error {
	request := doseActionRequest{}
	if status, message := parseDoseAction(c, &request); status != 0 {
		return apiError(c, status, message)
	}

	logEntry, err := handler.doseService.TakeDose(request.MedicationID, request.PlannedAt)
	if err != nil {
		return serviceError(c, err)
	}

	handler.reminders.Cancel(request.MedicationID, request.PlannedAt)
	handler.reconcileReminders()
	return c.JSON(logEntry)
}

func (handler *Handler) SkipDose(c *fiber.Ctx) error {
	request := doseActionRequest{}
	if status, message := parseDoseAction(c, &request); status != 0 {
		return apiError(c, status, message)
	}

	logEntry, err := handler.doseService.SkipDose(request.MedicationID, request.PlannedAt)
	if err != nil {
		return serviceError(c, err)
	}

	handler.reminders.Cancel(request.MedicationID, request.PlannedAt)
	handler.reconcileReminders()
	return c.JSON(logEntry)
}

func (handler *Handler) SnoozeDose(c *fiber.Ctx) error {
	request := snoozeRequest{}
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if request.MedicationID == uuid.Nil {
		return apiError(c, fiber.StatusBadRequest, "medication_id is required")
	}
	if request.PlannedAt.IsZero() {
		return apiError(c, fiber.StatusBadRequest, "planned_at is required")
	}

	until, err := handler.doseService.SnoozeDose(request.MedicationID, request.PlannedAt, request.Minutes)
	if err != nil {
		return serviceError(c, err)
	}

	dose := services.PlannedDose{MedicationID: request.MedicationID, PlannedAt: request.PlannedAt}
	handler.reminders.Snooze(c.UserContext(), dose, until)
	return c.JSON(fiber.Map{"snoozed_until": until})
}

func (handler *Handler) GetDoseLogs(c *fiber.Ctx) error {
	if raw := c.Query("date"); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, handler.location)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
		logs, err := handler.doseService.FetchLogsForDay(day, handler.location)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(logs)
	}

	logs, err := handler.doseService.FetchAllLogs()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(logs)
}
