package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/medcompanion/medcompanion/internal/services"
)

func (handler *Handler) ExportDosesCSV(c *fiber.Ctx) error {
	rows, err := handler.exportService.BuildDoseRows(handler.location)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	return sendCSV(c, "doses", services.DoseCSVHeaders, rows, time.Now().In(handler.location))
}

func (handler *Handler) ExportSymptomsCSV(c *fiber.Ctx) error {
	rows, err := handler.exportService.BuildSymptomRows(handler.location)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	return sendCSV(c, "symptoms", services.SymptomCSVHeaders, rows, time.Now().In(handler.location))
}

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	summary, err := handler.exportService.BuildSummary()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	return c.JSON(summary)
}

func sendCSV(c *fiber.Ctx, kind string, headers []string, rows [][]string, now time.Time) error {
	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(headers); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	filename := fmt.Sprintf("medcompanion-%s-%s.csv", kind, now.Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(output.Bytes())
}
