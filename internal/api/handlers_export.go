package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cycletrack/internal/services"
)

const defaultForecastCycles = 3

func (handler *Handler) GetForecast(c *fiber.Ctx) error {
	entry, forecast, err := handler.tracker.Forecast(c.UserContext(), currentUserID(c), c.QueryInt("cycles", defaultForecastCycles))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(forecastResponse{Entry: entry, Forecast: forecast})
}

// ExportCalendarFeed serves the latest cycle and its forecast as iCalendar.
// Users without entries get an empty calendar.
func (handler *Handler) ExportCalendarFeed(c *fiber.Ctx) error {
	userID := currentUserID(c)
	lang := currentLanguage(c)

	entry, forecast, err := handler.tracker.Forecast(c.UserContext(), userID, c.QueryInt("cycles", defaultForecastCycles))
	if err != nil && !errors.Is(err, services.ErrNoCycleEntries) {
		return handler.respondServiceError(c, err)
	}

	payload, err := services.BuildPhaseCalendar(services.PhaseCalendarExport{
		UserID:   userID,
		Entry:    entry,
		Forecast: forecast,
		Label: func(phase services.DayPhase) string {
			return handler.i18n.PhaseLabel(lang, string(phase))
		},
		Now: handler.now(),
	})
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="cycletrack.ics"`)
	return c.Send(payload)
}
