package services

import "sort"

const statsWindowCycles = 6

// CycleStats summarises a user's history as of one day. Observed lengths are
// the gaps between consecutive distinct period starts, most recent last.
type CycleStats struct {
	EntryCount          int          `json:"entry_count"`
	ObservedLengths     []int        `json:"observed_cycle_lengths"`
	AverageCycleLength  float64      `json:"average_cycle_length"`
	MedianCycleLength   int          `json:"median_cycle_length"`
	LastPeriodStart     CalendarDate `json:"last_period_start"`
	NextPeriodStart     CalendarDate `json:"next_period_start"`
	CurrentCycleDay     int          `json:"current_cycle_day"`
	DaysUntilNextPeriod int          `json:"days_until_next_period"`
	CurrentPhase        DayPhase     `json:"current_phase"`
}

// BuildCycleStats expects entries oldest first. The latest recorded entry is
// the active cycle even when an earlier entry has a later start date.
func BuildCycleStats(entries []CycleEntry, today CalendarDate) CycleStats {
	stats := CycleStats{
		EntryCount:      len(entries),
		ObservedLengths: []int{},
		CurrentPhase:    DayPhaseNone,
	}
	if len(entries) == 0 {
		return stats
	}

	lengths := tailInts(observedCycleLengths(entries), statsWindowCycles)
	stats.ObservedLengths = lengths
	stats.AverageCycleLength = averageInts(lengths)
	stats.MedianCycleLength = medianInt(lengths)

	latest := entries[len(entries)-1]
	stats.LastPeriodStart = latest.PeriodStartDate
	stats.NextPeriodStart = latest.Phases.NextPeriodStart()
	if !today.Before(latest.PeriodStartDate) {
		stats.CurrentCycleDay = latest.PeriodStartDate.DaysUntil(today) + 1
	}
	stats.DaysUntilNextPeriod = today.DaysUntil(stats.NextPeriodStart)
	stats.CurrentPhase = classifyDate(today, &latest.Phases)
	return stats
}

func observedCycleLengths(entries []CycleEntry) []int {
	starts := make([]CalendarDate, 0, len(entries))
	for _, entry := range entries {
		if !containsDate(starts, entry.PeriodStartDate) {
			starts = append(starts, entry.PeriodStartDate)
		}
	}
	sort.Slice(starts, func(i, j int) bool {
		return starts[i].Before(starts[j])
	})

	if len(starts) < 2 {
		return []int{}
	}
	lengths := make([]int, 0, len(starts)-1)
	for i := 1; i < len(starts); i++ {
		lengths = append(lengths, starts[i-1].DaysUntil(starts[i]))
	}
	return lengths
}

func tailInts(values []int, n int) []int {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func averageInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var total int
	for _, value := range values {
		total += value
	}
	return float64(total) / float64(len(values))
}

func medianInt(values []int) int {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]int, 0, len(values))
	sorted = append(sorted, values...)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return int(float64(sorted[mid-1]+sorted[mid])/2 + 0.5)
}
