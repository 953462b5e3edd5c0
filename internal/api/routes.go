package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Healthz)

	group := app.Group("/api")
	group.Get("/cycle/calendar.ics", handler.FeedAuthRequired, handler.ExportCalendarFeed)
	group.Get("/cycle/export.csv", handler.AuthRequired, handler.ExportCSV)
	group.Get("/cycle/forecast", handler.AuthRequired, handler.GetForecast)
	group.Get("/cycle/stats", handler.AuthRequired, handler.GetStats)
	group.Post("/cycle", handler.AuthRequired, handler.CreateCycleEntry)
	group.Get("/cycle", handler.AuthRequired, handler.ListCycleEntries)

	group.Get("/calendar", handler.AuthRequired, handler.GetCalendar)
	group.Post("/calendar/prev", handler.AuthRequired, handler.PrevMonth)
	group.Post("/calendar/next", handler.AuthRequired, handler.NextMonth)
}
