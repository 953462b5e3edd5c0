package services

import (
	"context"
	"reflect"
	"testing"
)

func statsEntries(t *testing.T, starts ...string) []CycleEntry {
	t.Helper()

	entries := make([]CycleEntry, 0, len(starts))
	for _, raw := range starts {
		start := MustParseCalendarDate(raw)
		phases, err := ComputePhases(start, 0)
		if err != nil {
			t.Fatalf("ComputePhases(%s): %v", raw, err)
		}
		entries = append(entries, CycleEntry{PeriodStartDate: start, Phases: phases})
	}
	return entries
}

func TestBuildCycleStatsEmptyHistory(t *testing.T) {
	stats := BuildCycleStats(nil, MustParseCalendarDate("2025-03-01"))
	if stats.EntryCount != 0 || stats.CurrentPhase != DayPhaseNone || len(stats.ObservedLengths) != 0 {
		t.Fatalf("unexpected empty stats %#v", stats)
	}
	if !stats.NextPeriodStart.IsZero() || stats.CurrentCycleDay != 0 {
		t.Fatalf("expected no prediction without entries, got %#v", stats)
	}
}

func TestBuildCycleStatsObservedLengths(t *testing.T) {
	entries := statsEntries(t, "2025-01-01", "2025-01-30", "2025-02-26", "2025-03-28")

	stats := BuildCycleStats(entries, MustParseCalendarDate("2025-04-05"))
	if !reflect.DeepEqual(stats.ObservedLengths, []int{29, 27, 30}) {
		t.Fatalf("unexpected observed lengths %v", stats.ObservedLengths)
	}
	if stats.MedianCycleLength != 29 {
		t.Fatalf("expected median 29, got %d", stats.MedianCycleLength)
	}
	if stats.AverageCycleLength < 28.66 || stats.AverageCycleLength > 28.67 {
		t.Fatalf("expected average near 28.67, got %f", stats.AverageCycleLength)
	}
	if stats.LastPeriodStart.String() != "2025-03-28" || stats.NextPeriodStart.String() != "2025-04-25" {
		t.Fatalf("unexpected prediction %s -> %s", stats.LastPeriodStart, stats.NextPeriodStart)
	}
	if stats.CurrentCycleDay != 9 || stats.DaysUntilNextPeriod != 20 {
		t.Fatalf("expected cycle day 9 and 20 days left, got %d and %d", stats.CurrentCycleDay, stats.DaysUntilNextPeriod)
	}
	if stats.CurrentPhase != DayPhaseNone {
		t.Fatalf("expected no phase on day 9, got %q", stats.CurrentPhase)
	}
}

func TestBuildCycleStatsCurrentPhase(t *testing.T) {
	entries := statsEntries(t, "2025-01-01")

	cases := map[string]DayPhase{
		"2025-01-03": DayPhasePeriod,
		"2025-01-12": DayPhaseFertile,
		"2025-01-15": DayPhaseOvulation,
		"2025-01-30": DayPhaseNextPeriod,
	}
	for raw, want := range cases {
		if got := BuildCycleStats(entries, MustParseCalendarDate(raw)).CurrentPhase; got != want {
			t.Fatalf("phase on %s = %q, want %q", raw, got, want)
		}
	}

	overdue := BuildCycleStats(entries, MustParseCalendarDate("2025-02-05"))
	if overdue.DaysUntilNextPeriod != -7 || overdue.CurrentCycleDay != 36 {
		t.Fatalf("unexpected overdue stats %#v", overdue)
	}
}

func TestBuildCycleStatsIgnoresDuplicateStartsAndKeepsWindow(t *testing.T) {
	entries := statsEntries(t,
		"2024-01-01", "2024-01-29", "2024-02-26", "2024-03-25", "2024-04-22",
		"2024-05-20", "2024-06-17", "2024-07-15", "2024-07-15",
	)

	stats := BuildCycleStats(entries, MustParseCalendarDate("2024-07-20"))
	if stats.EntryCount != 9 {
		t.Fatalf("expected every entry to be counted, got %d", stats.EntryCount)
	}
	if len(stats.ObservedLengths) != statsWindowCycles {
		t.Fatalf("expected %d observed lengths, got %v", statsWindowCycles, stats.ObservedLengths)
	}
	for _, length := range stats.ObservedLengths {
		if length != 28 {
			t.Fatalf("expected 28-day cycles only, got %v", stats.ObservedLengths)
		}
	}
}

func TestMedianIntRoundsEvenCount(t *testing.T) {
	if got := medianInt([]int{27, 30}); got != 29 {
		t.Fatalf("medianInt = %d, want 29", got)
	}
	if got := medianInt(nil); got != 0 {
		t.Fatalf("medianInt(nil) = %d, want 0", got)
	}
}

func TestCycleTrackerStatsAndEntries(t *testing.T) {
	tracker := newTestCycleTracker(NewMemoryEntryPersistence(), "2025-02-10")
	ctx := context.Background()

	for _, raw := range []string{"2025-01-01", "2025-01-29"} {
		if _, _, err := tracker.AddPeriod(ctx, "alice", MustParseCalendarDate(raw), 0); err != nil {
			t.Fatalf("AddPeriod(%s): %v", raw, err)
		}
	}

	entries, err := tracker.Entries(ctx, "alice")
	if err != nil || len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d err=%v", len(entries), err)
	}

	stats, err := tracker.Stats(ctx, "alice")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.CurrentCycleDay != 13 || !reflect.DeepEqual(stats.ObservedLengths, []int{28}) {
		t.Fatalf("unexpected stats %#v", stats)
	}
}

func TestExportCSVRows(t *testing.T) {
	entries := statsEntries(t, "2025-01-01")
	entries[0].CycleLengthHint = 0

	hinted, err := ComputePhases(MustParseCalendarDate("2025-02-01"), 30)
	if err != nil {
		t.Fatalf("ComputePhases: %v", err)
	}
	entries = append(entries, CycleEntry{PeriodStartDate: MustParseCalendarDate("2025-02-01"), CycleLengthHint: 30, Phases: hinted})

	rows := ExportCSVRows(entries)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	want := []string{"2025-01-01", "28", "", "2025-01-15", "2025-01-11", "2025-01-15", "2025-01-29", ""}
	if !reflect.DeepEqual(rows[0], want) {
		t.Fatalf("row 0 = %v, want %v", rows[0], want)
	}
	if rows[1][1] != "30" || rows[1][2] != "30" || rows[1][6] != "2025-03-03" {
		t.Fatalf("unexpected hinted row %v", rows[1])
	}
	if len(ExportCSVHeaders) != len(rows[0]) {
		t.Fatalf("header has %d columns, rows have %d", len(ExportCSVHeaders), len(rows[0]))
	}
}
