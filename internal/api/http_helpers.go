package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cycletrack/internal/services"
)

// apiError writes a localized JSON error. key is an i18n message id and
// doubles as the machine-readable code.
func (handler *Handler) apiError(c *fiber.Ctx, status int, key string) error {
	return handler.apiErrorWithData(c, status, key, nil)
}

func (handler *Handler) apiErrorWithData(c *fiber.Ctx, status int, key string, data map[string]any) error {
	return c.Status(status).JSON(fiber.Map{
		"error": handler.i18n.Translatef(currentLanguage(c), key, data),
		"code":  key,
	})
}

func (handler *Handler) respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidDate):
		return handler.apiError(c, fiber.StatusBadRequest, "error.invalid_date")
	case errors.Is(err, services.ErrForecastCyclesOutOfRange):
		return handler.apiErrorWithData(c, fiber.StatusBadRequest, "error.forecast_range", map[string]any{"Max": services.MaxForecastCycles})
	case errors.Is(err, services.ErrUserIDRequired):
		return handler.apiError(c, fiber.StatusUnauthorized, "error.unauthorized")
	case errors.Is(err, services.ErrNoCycleEntries):
		return handler.apiError(c, fiber.StatusNotFound, "error.no_entries")
	case errors.Is(err, services.ErrPersistenceFailure):
		log.Printf("api: %s %s: %v", c.Method(), c.Path(), err)
		return handler.apiError(c, fiber.StatusBadGateway, "error.persistence")
	default:
		log.Printf("api: %s %s: %v", c.Method(), c.Path(), err)
		return handler.apiError(c, fiber.StatusInternalServerError, "error.internal")
	}
}
