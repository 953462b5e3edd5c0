package services

import "time"

type DayPhase string

const (
	DayPhasePeriod     DayPhase = "period"
	DayPhaseOvulation  DayPhase = "ovulation"
	DayPhaseFertile    DayPhase = "fertile"
	DayPhaseNextPeriod DayPhase = "nextPeriod"
	DayPhaseNone       DayPhase = "none"
)

// LegendPhases lists the labelled phases in classification order.
var LegendPhases = []DayPhase{DayPhasePeriod, DayPhaseOvulation, DayPhaseFertile, DayPhaseNextPeriod}

type ProjectedDay struct {
	Day   int          `json:"day"`
	Date  CalendarDate `json:"date"`
	Phase DayPhase     `json:"phase"`
}

type MonthProjection struct {
	Month       int            `json:"month"`
	Year        int            `json:"year"`
	DaysInMonth int            `json:"days_in_month"`
	Days        []ProjectedDay `json:"days"`
}

// ClassifyDay labels one day of the displayed month (0-11). Period days win
// over ovulation, ovulation over the fertile window, the fertile window over
// the expected period.
func ClassifyDay(day int, displayedMonth int, displayedYear int, active *PhaseSet) DayPhase {
	if active == nil {
		return DayPhaseNone
	}
	date, err := NewCalendarDate(displayedYear, time.Month(displayedMonth+1), day)
	if err != nil {
		return DayPhaseNone
	}
	return classifyDate(date, active)
}

func classifyDate(date CalendarDate, active *PhaseSet) DayPhase {
	switch {
	case active.IsPeriodDay(date):
		return DayPhasePeriod
	case active.IsOvulationDay(date):
		return DayPhaseOvulation
	case active.IsFertileDay(date):
		return DayPhaseFertile
	case active.IsNextPeriodDay(date):
		return DayPhaseNextPeriod
	default:
		return DayPhaseNone
	}
}

func ProjectMonth(state CalendarViewState, active *PhaseSet) MonthProjection {
	month := time.Month(state.DisplayedMonth + 1)
	daysInMonth := DaysInMonth(state.DisplayedYear, month)

	projection := MonthProjection{
		Month:       state.DisplayedMonth,
		Year:        state.DisplayedYear,
		DaysInMonth: daysInMonth,
		Days:        make([]ProjectedDay, 0, daysInMonth),
	}
	for day := 1; day <= daysInMonth; day++ {
		projection.Days = append(projection.Days, ProjectedDay{
			Day:   day,
			Date:  CalendarDate{Year: state.DisplayedYear, Month: month, Day: day},
			Phase: ClassifyDay(day, state.DisplayedMonth, state.DisplayedYear, active),
		})
	}
	return projection
}

func (projection MonthProjection) FirstWeekday() time.Weekday {
	return time.Date(projection.Year, time.Month(projection.Month+1), 1, 0, 0, 0, 0, time.UTC).Weekday()
}
