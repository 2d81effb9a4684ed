package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/medcompanion/medcompanion/internal/services"
)

type askRequest struct {
	Question     string              `json:"question"`
	MedicationID *uuid.UUID          `json:"medication_id"`
	History      []services.ChatTurn `json:"history"`
}

// AskChat builds the medicine context for the question scope and
// answers through the configured backend, or locally when none is set.
func (handler *Handler) AskChat(c *fiber.Ctx) error {
	request := askRequest{}
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	question := strings.TrimSpace(request.Question)
	if question == "" {
		return apiError(c, fiber.StatusBadRequest, "question is required")
	}

	settings, err := handler.settingsService.Load()
	if err != nil {
		return serviceError(c, err)
	}
	if !settings.AIEnabled {
		return apiError(c, fiber.StatusForbidden, "assistant is disabled in settings")
	}

	var contextText string
	if request.MedicationID != nil && *request.MedicationID != uuid.Nil {
		medication, found, err := handler.repositories.Medications.FindByID(*request.MedicationID)
		if err != nil {
			return serviceError(c, err)
		}
		if !found {
			return serviceError(c, services.ErrMedicationNotFound)
		}
		contextText, err = handler.contextService.BuildForMedication(c.UserContext(), medication)
		if err != nil {
			return serviceError(c, err)
		}
	} else {
		contextText, err = handler.contextService.BuildForAllMedications(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
	}

	reply := handler.chatService.Ask(c.UserContext(), question, contextText, request.History)
	return c.JSON(fiber.Map{"reply": reply})
}
