package api

import (
	"bytes"
	"encoding/csv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cycletrack/internal/services"
)

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	entries, err := handler.tracker.Entries(c.UserContext(), currentUserID(c))
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return handler.apiError(c, fiber.StatusInternalServerError, "error.internal")
	}
	if err := writer.WriteAll(services.ExportCSVRows(entries)); err != nil {
		return handler.apiError(c, fiber.StatusInternalServerError, "error.internal")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="cycletrack-`+handler.now().Format("2006-01-02")+`.csv"`)
	return c.Send(output.Bytes())
}
