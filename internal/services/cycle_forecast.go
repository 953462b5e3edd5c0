package services

import (
	"errors"
	"fmt"

	"github.com/teambition/rrule-go"
)

const MaxForecastCycles = 12

var ErrForecastCyclesOutOfRange = errors.New("forecast cycles out of range")

// ForecastCycles projects the cycles that follow entry, assuming every cycle
// repeats the entry's length. The entry's own cycle is not included.
func ForecastCycles(entry CycleEntry, cycles int) ([]PhaseSet, error) {
	if cycles < 1 || cycles > MaxForecastCycles {
		return nil, ErrForecastCyclesOutOfRange
	}
	if !entry.PeriodStartDate.Valid() {
		return nil, fmt.Errorf("%w: period start %s", ErrInvalidDate, entry.PeriodStartDate.String())
	}

	cycleLength := ResolveCycleLength(entry.CycleLengthHint)
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:     rrule.DAILY,
		Interval: cycleLength,
		Count:    cycles + 1,
		Dtstart:  entry.PeriodStartDate.Time(),
	})
	if err != nil {
		return nil, fmt.Errorf("build cycle recurrence: %w", err)
	}

	starts := rule.All()
	forecast := make([]PhaseSet, 0, cycles)
	for _, start := range starts {
		cycleStart := DateOf(start)
		if !cycleStart.After(entry.PeriodStartDate) {
			continue
		}
		phases, err := ComputePhases(cycleStart, cycleLength)
		if err != nil {
			return nil, err
		}
		forecast = append(forecast, phases)
	}
	return forecast, nil
}
