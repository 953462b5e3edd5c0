package services

import "errors"

// ErrIllegalNavigation reports a refused move to callers that must fail.
// Transitions themselves signal refusal with a false result.
var ErrIllegalNavigation = errors.New("illegal calendar navigation")

// CalendarViewState is the displayed month (0-11), its year and the single
// backward-navigation gate.
type CalendarViewState struct {
	DisplayedMonth int  `json:"displayed_month"`
	DisplayedYear  int  `json:"displayed_year"`
	CanGoBack      bool `json:"can_go_back"`
}

type NavigationEvent interface {
	isNavigationEvent()
}

type AddEntryEvent struct {
	Entry CycleEntry
}

type PrevMonthEvent struct{}

type NextMonthEvent struct {
	Active *PhaseSet
}

func (AddEntryEvent) isNavigationEvent()  {}
func (PrevMonthEvent) isNavigationEvent() {}
func (NextMonthEvent) isNavigationEvent() {}

func NewCalendarViewState(today CalendarDate) CalendarViewState {
	return CalendarViewState{
		DisplayedMonth: today.MonthIndex(),
		DisplayedYear:  today.Year,
		CanGoBack:      false,
	}
}

// Transition applies event to state. The boolean reports whether the move was
// legal; an illegal move returns state unchanged.
func Transition(state CalendarViewState, event NavigationEvent) (CalendarViewState, bool) {
	switch typed := event.(type) {
	case AddEntryEvent:
		return OnAddEntry(state, typed.Entry), true
	case PrevMonthEvent:
		return GoPrevMonth(state)
	case NextMonthEvent:
		return GoNextMonth(state, typed.Active)
	default:
		return state, false
	}
}

func OnAddEntry(_ CalendarViewState, entry CycleEntry) CalendarViewState {
	return CalendarViewState{
		DisplayedMonth: entry.PeriodStartDate.MonthIndex(),
		DisplayedYear:  entry.PeriodStartDate.Year,
		CanGoBack:      false,
	}
}

func GoPrevMonth(state CalendarViewState) (CalendarViewState, bool) {
	if !state.CanGoBack {
		return state, false
	}

	next := state
	next.DisplayedMonth--
	if next.DisplayedMonth < 0 {
		next.DisplayedMonth = 11
		next.DisplayedYear--
	}
	next.CanGoBack = false
	return next, true
}

func GoNextMonth(state CalendarViewState, active *PhaseSet) (CalendarViewState, bool) {
	if !CanGoNextMonth(state, active) {
		return state, false
	}

	next := state
	next.DisplayedMonth++
	if next.DisplayedMonth > 11 {
		next.DisplayedMonth = 0
		next.DisplayedYear++
	}
	next.CanGoBack = true
	return next, true
}

// CanGoNextMonth holds when the active expected period ends exactly one
// calendar month after the month of the active period start. The displayed
// month plays no part.
func CanGoNextMonth(_ CalendarViewState, active *PhaseSet) bool {
	if active == nil || len(active.NextExpectedPeriod) == 0 || len(active.PeriodDays) == 0 {
		return false
	}

	cycleMonth := absoluteMonth(active.PeriodStart().Year, active.PeriodStart().MonthIndex())
	nextPeriodEndMonth := absoluteMonth(active.NextPeriodEnd().Year, active.NextPeriodEnd().MonthIndex())
	return nextPeriodEndMonth == cycleMonth+1
}

func absoluteMonth(year int, monthIndex int) int {
	return year*12 + monthIndex
}

// CalendarSession pairs the view state with the phase set it renders.
type CalendarSession struct {
	State  CalendarViewState `json:"state"`
	Active *PhaseSet         `json:"active,omitempty"`
}

func NewCalendarSession(today CalendarDate) CalendarSession {
	return CalendarSession{State: NewCalendarViewState(today)}
}

func (session CalendarSession) Apply(event NavigationEvent) (CalendarSession, bool) {
	if next, ok := event.(NextMonthEvent); ok && next.Active == nil {
		event = NextMonthEvent{Active: session.Active}
	}

	state, moved := Transition(session.State, event)
	if !moved {
		return session, false
	}

	updated := CalendarSession{State: state, Active: session.Active}
	if added, ok := event.(AddEntryEvent); ok {
		phases := added.Entry.Phases.clone()
		updated.Active = &phases
	}
	return updated, true
}

func (session CalendarSession) CanGoNext() bool {
	return CanGoNextMonth(session.State, session.Active)
}
