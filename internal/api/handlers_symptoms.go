package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type symptomRequest struct {
	Text       string     `json:"text"`
	Severity   int        `json:"severity"`
	OccurredAt *time.Time `json:"occurred_at"`
}

func (handler *Handler) GetSymptoms(c *fiber.Ctx) error {
	entries, err := handler.symptomService.ListSymptoms()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(entries)
}

func (handler *Handler) CreateSymptom(c *fiber.Ctx) error {
	request := symptomRequest{}
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	occurredAt := time.Now().In(handler.location)
	if request.OccurredAt != nil {
		occurredAt = request.OccurredAt.In(handler.location)
	}

	entry, err := handler.symptomService.LogSymptom(request.Text, request.Severity, occurredAt)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) DeleteSymptom(c *fiber.Ctx) error {
	entryID, ok := parseUUIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid symptom id")
	}

	if err := handler.symptomService.DeleteSymptom(entryID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
