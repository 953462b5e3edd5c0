package services

import "fmt"

const (
	PeriodDurationDays = 5
	DefaultCycleLength = 28
	LutealPhaseDays    = 14
	FertileWindowDays  = 5

	// Typical cycle lengths. Hints outside this range are still accepted;
	// they only move the predicted phases into unusual months.
	MinTypicalCycleLength = 21
	MaxTypicalCycleLength = 45
)

type PhaseSet struct {
	PeriodDays         []CalendarDate `json:"period_days"`
	OvulationDay       CalendarDate   `json:"ovulation_day"`
	FertileWindow      []CalendarDate `json:"fertile_window"`
	NextExpectedPeriod []CalendarDate `json:"expected_next_period"`
}

// ComputePhases derives the phase set of one cycle. A cycleLengthHint <= 0
// means no hint was supplied and DefaultCycleLength is used.
func ComputePhases(periodStart CalendarDate, cycleLengthHint int) (PhaseSet, error) {
	if !periodStart.Valid() {
		return PhaseSet{}, fmt.Errorf("%w: period start %s", ErrInvalidDate, periodStart.String())
	}

	cycleLength := ResolveCycleLength(cycleLengthHint)
	nextPeriodStart := periodStart.AddDays(cycleLength)
	ovulationDay := nextPeriodStart.AddDays(-LutealPhaseDays)

	return PhaseSet{
		PeriodDays:         consecutiveDays(periodStart, PeriodDurationDays),
		OvulationDay:       ovulationDay,
		FertileWindow:      consecutiveDays(ovulationDay.AddDays(-(FertileWindowDays - 1)), FertileWindowDays),
		NextExpectedPeriod: consecutiveDays(nextPeriodStart, PeriodDurationDays),
	}, nil
}

func ResolveCycleLength(cycleLengthHint int) int {
	if cycleLengthHint <= 0 {
		return DefaultCycleLength
	}
	return cycleLengthHint
}

func IsTypicalCycleLength(cycleLength int) bool {
	return cycleLength >= MinTypicalCycleLength && cycleLength <= MaxTypicalCycleLength
}

func (phases PhaseSet) IsZero() bool {
	return len(phases.PeriodDays) == 0 && len(phases.NextExpectedPeriod) == 0 && phases.OvulationDay.IsZero()
}

func (phases PhaseSet) PeriodStart() CalendarDate {
	if len(phases.PeriodDays) == 0 {
		return CalendarDate{}
	}
	return phases.PeriodDays[0]
}

func (phases PhaseSet) NextPeriodStart() CalendarDate {
	if len(phases.NextExpectedPeriod) == 0 {
		return CalendarDate{}
	}
	return phases.NextExpectedPeriod[0]
}

func (phases PhaseSet) NextPeriodEnd() CalendarDate {
	if len(phases.NextExpectedPeriod) == 0 {
		return CalendarDate{}
	}
	return phases.NextExpectedPeriod[len(phases.NextExpectedPeriod)-1]
}

func (phases PhaseSet) CycleLength() int {
	if len(phases.PeriodDays) == 0 || len(phases.NextExpectedPeriod) == 0 {
		return 0
	}
	return phases.PeriodStart().DaysUntil(phases.NextPeriodStart())
}

func (phases PhaseSet) IsPeriodDay(day CalendarDate) bool {
	return containsDate(phases.PeriodDays, day)
}

func (phases PhaseSet) IsOvulationDay(day CalendarDate) bool {
	return !phases.OvulationDay.IsZero() && phases.OvulationDay == day
}

func (phases PhaseSet) IsFertileDay(day CalendarDate) bool {
	return containsDate(phases.FertileWindow, day)
}

func (phases PhaseSet) IsNextPeriodDay(day CalendarDate) bool {
	return containsDate(phases.NextExpectedPeriod, day)
}

func (phases PhaseSet) clone() PhaseSet {
	return PhaseSet{
		PeriodDays:         append([]CalendarDate(nil), phases.PeriodDays...),
		OvulationDay:       phases.OvulationDay,
		FertileWindow:      append([]CalendarDate(nil), phases.FertileWindow...),
		NextExpectedPeriod: append([]CalendarDate(nil), phases.NextExpectedPeriod...),
	}
}

func consecutiveDays(start CalendarDate, count int) []CalendarDate {
	days := make([]CalendarDate, 0, count)
	for offset := 0; offset < count; offset++ {
		days = append(days, start.AddDays(offset))
	}
	return days
}
