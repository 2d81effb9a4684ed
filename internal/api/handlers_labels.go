package api

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/medcompanion/medcompanion/internal/labels"
)

// GetLabel answers from the local cache unless ?refresh=1 forces a new
// lookup. Lookup failures leave any cached copy untouched.
func (handler *Handler) GetLabel(c *fiber.Ctx) error {
	raw, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		raw = c.Params("name")
	}
	name := strings.TrimSpace(raw)
	if name == "" {
		return apiError(c, fiber.StatusBadRequest, "medication name is required")
	}
	refresh := c.Query("refresh") == "1"

	label, err := handler.labelService.Explain(c.UserContext(), name, refresh)
	if err != nil {
		if errors.Is(err, labels.ErrNotFound) || errors.Is(err, labels.ErrEmptyRecord) {
			return apiError(c, fiber.StatusNotFound, "no label information found for this medication")
		}
		return apiError(c, fiber.StatusBadGateway, "label lookup is unavailable right now")
	}
	return c.JSON(label)
}
