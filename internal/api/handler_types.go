package api

import "github.com/terraincognita07/cycletrack/internal/services"

type cycleEntryInput struct {
	PeriodDate  string `json:"period_date" form:"period_date"`
	CycleLength int    `json:"cycle_length" form:"cycle_length"`
}

type legendItem struct {
	Phase services.DayPhase `json:"phase"`
	Label string            `json:"label"`
}

type calendarView struct {
	State     services.CalendarViewState `json:"state"`
	Title     string                     `json:"title"`
	CanGoNext bool                       `json:"can_go_next"`
	Month     services.MonthProjection   `json:"month"`
	Legend    []legendItem               `json:"legend"`
	Active    *services.PhaseSet         `json:"active,omitempty"`
}

type createEntryResponse struct {
	Message  string              `json:"message"`
	Entry    services.CycleEntry `json:"entry"`
	Calendar calendarView        `json:"calendar"`
}

type historyResponse struct {
	Entries []services.CycleEntry `json:"entries"`
}

type navigationResponse struct {
	Moved    bool         `json:"moved"`
	Calendar calendarView `json:"calendar"`
}

type forecastResponse struct {
	Entry    services.CycleEntry  `json:"entry"`
	Forecast []services.PhaseSet `json:"forecast"`
}
