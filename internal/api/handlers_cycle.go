package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cycletrack/internal/services"
)

const maxHistoryLimit = 100

func (handler *Handler) CreateCycleEntry(c *fiber.Ctx) error {
	input := cycleEntryInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "error.invalid_request")
	}

	periodStart, err := services.ParseCalendarDate(input.PeriodDate)
	if err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "error.invalid_date")
	}
	if input.CycleLength < 0 {
		return handler.apiError(c, fiber.StatusBadRequest, "error.invalid_cycle_length")
	}

	entry, session, err := handler.tracker.AddPeriod(c.UserContext(), currentUserID(c), periodStart, input.CycleLength)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(createEntryResponse{
		Message:  handler.i18n.Translate(currentLanguage(c), "message.entry_saved"),
		Entry:    entry,
		Calendar: handler.buildCalendarView(currentLanguage(c), session),
	})
}

// ListCycleEntries returns the most recent entries, oldest first.
func (handler *Handler) ListCycleEntries(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", services.DefaultHistoryLimit)
	if limit <= 0 {
		limit = services.DefaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := handler.tracker.History(c.UserContext(), currentUserID(c), limit)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(historyResponse{Entries: entries})
}
