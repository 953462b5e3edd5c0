package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cycletrack/internal/services"
)

func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	session, err := handler.tracker.Session(c.UserContext(), currentUserID(c))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(handler.buildCalendarView(currentLanguage(c), session))
}

func (handler *Handler) PrevMonth(c *fiber.Ctx) error {
	session, moved, err := handler.tracker.PrevMonth(c.UserContext(), currentUserID(c))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(navigationResponse{Moved: moved, Calendar: handler.buildCalendarView(currentLanguage(c), session)})
}

func (handler *Handler) NextMonth(c *fiber.Ctx) error {
	session, moved, err := handler.tracker.NextMonth(c.UserContext(), currentUserID(c))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(navigationResponse{Moved: moved, Calendar: handler.buildCalendarView(currentLanguage(c), session)})
}

func (handler *Handler) buildCalendarView(lang string, session services.CalendarSession) calendarView {
	legend := make([]legendItem, 0, len(services.LegendPhases))
	for _, phase := range services.LegendPhases {
		legend = append(legend, legendItem{Phase: phase, Label: handler.i18n.PhaseLabel(lang, string(phase))})
	}

	return calendarView{
		State:     session.State,
		Title:     handler.i18n.MonthTitle(lang, session.State.DisplayedMonth, session.State.DisplayedYear),
		CanGoNext: session.CanGoNext(),
		Month:     services.ProjectMonth(session.State, session.Active),
		Legend:    legend,
		Active:    session.Active,
	}
}
