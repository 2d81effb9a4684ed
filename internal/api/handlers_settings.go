package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/medcompanion/medcompanion/internal/services"
)

func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	settings, err := handler.settingsService.Load()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(settings)
}

// UpdateSettings persists the new preferences and reconciles timers so
// a notifications toggle takes effect immediately.
func (handler *Handler) UpdateSettings(c *fiber.Ctx) error {
	input := services.SettingsInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	settings, err := handler.settingsService.Update(input)
	if err != nil {
		return serviceError(c, err)
	}

	handler.reconcileReminders()
	return c.JSON(settings)
}
