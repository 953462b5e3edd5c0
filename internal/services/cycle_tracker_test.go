package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestCycleTracker(persistence EntryPersistence, today string) *CycleTracker {
	tracker := NewCycleTracker(NewCycleEntryStore(persistence), time.UTC)
	tracker.now = func() time.Time {
		return MustParseCalendarDate(today).Time().Add(10 * time.Hour)
	}
	return tracker
}

func TestCycleTrackerSessionStartsOnCurrentMonth(t *testing.T) {
	tracker := newTestCycleTracker(NewMemoryEntryPersistence(), "2025-04-12")

	session, err := tracker.Session(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Session() unexpected error: %v", err)
	}
	if session.State.DisplayedMonth != 3 || session.State.DisplayedYear != 2025 || session.State.CanGoBack {
		t.Fatalf("unexpected initial state: %#v", session.State)
	}
	if session.Active != nil {
		t.Fatalf("expected no active cycle without history")
	}
}

func TestCycleTrackerSessionRestoresLatestCycle(t *testing.T) {
	ctx := context.Background()
	persistence := NewMemoryEntryPersistence()
	for _, raw := range []string{"2025-02-01", "2025-03-01"} {
		if _, err := persistence.Save(ctx, "alice", MustParseCalendarDate(raw), 0); err != nil {
			t.Fatalf("seed save: %v", err)
		}
	}

	tracker := newTestCycleTracker(persistence, "2025-03-10")
	session, err := tracker.Session(ctx, "alice")
	if err != nil {
		t.Fatalf("Session() unexpected error: %v", err)
	}
	if session.Active == nil || session.Active.PeriodStart().String() != "2025-03-01" {
		t.Fatalf("expected latest cycle to be active, got %#v", session.Active)
	}

	history, err := tracker.History(ctx, "alice", 0)
	if err != nil {
		t.Fatalf("History() unexpected error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 loaded entries, got %d", len(history))
	}
}

func TestCycleTrackerAddPeriodMovesView(t *testing.T) {
	ctx := context.Background()
	tracker := newTestCycleTracker(NewMemoryEntryPersistence(), "2025-04-12")

	entry, session, err := tracker.AddPeriod(ctx, "alice", MustParseCalendarDate("2025-01-01"), 0)
	if err != nil {
		t.Fatalf("AddPeriod() unexpected error: %v", err)
	}
	if entry.Phases.OvulationDay.String() != "2025-01-15" {
		t.Fatalf("unexpected ovulation day %s", entry.Phases.OvulationDay)
	}
	if session.State.DisplayedMonth != 0 || session.State.DisplayedYear != 2025 || session.State.CanGoBack {
		t.Fatalf("unexpected state after add: %#v", session.State)
	}

	session, moved, err := tracker.NextMonth(ctx, "alice")
	if err != nil || !moved || session.State.DisplayedMonth != 1 {
		t.Fatalf("expected forward move, got %#v moved=%v err=%v", session.State, moved, err)
	}

	session, moved, err = tracker.NextMonth(ctx, "alice")
	if err != nil || !moved || session.State.DisplayedMonth != 2 {
		t.Fatalf("expected second forward move to reach March, got %#v moved=%v err=%v", session.State, moved, err)
	}

	session, moved, err = tracker.PrevMonth(ctx, "alice")
	if err != nil || !moved || session.State.DisplayedMonth != 1 || session.State.CanGoBack {
		t.Fatalf("expected backward move, got %#v moved=%v err=%v", session.State, moved, err)
	}
}

func TestCycleTrackerAddPeriodFailureKeepsView(t *testing.T) {
	ctx := context.Background()
	tracker := newTestCycleTracker(&failingEntryPersistence{saveErr: errors.New("locked")}, "2025-04-12")

	before, err := tracker.Session(ctx, "alice")
	if err != nil {
		t.Fatalf("Session() unexpected error: %v", err)
	}

	_, after, err := tracker.AddPeriod(ctx, "alice", MustParseCalendarDate("2025-01-01"), 0)
	if !errors.Is(err, ErrPersistenceFailure) {
		t.Fatalf("expected ErrPersistenceFailure, got %v", err)
	}
	if after.State != before.State || after.Active != nil {
		t.Fatalf("expected view to stay on %#v, got %#v", before.State, after.State)
	}
}

func TestCycleTrackerForecastRequiresEntry(t *testing.T) {
	ctx := context.Background()
	tracker := newTestCycleTracker(NewMemoryEntryPersistence(), "2025-04-12")

	if _, _, err := tracker.Forecast(ctx, "alice", 3); !errors.Is(err, ErrNoCycleEntries) {
		t.Fatalf("expected ErrNoCycleEntries, got %v", err)
	}

	if _, _, err := tracker.AddPeriod(ctx, "alice", MustParseCalendarDate("2025-04-01"), 0); err != nil {
		t.Fatalf("AddPeriod() unexpected error: %v", err)
	}
	entry, forecast, err := tracker.Forecast(ctx, "alice", 3)
	if err != nil {
		t.Fatalf("Forecast() unexpected error: %v", err)
	}
	if entry.PeriodStartDate.String() != "2025-04-01" || len(forecast) != 3 {
		t.Fatalf("unexpected forecast for %s: %d cycles", entry.PeriodStartDate, len(forecast))
	}
}

func TestCycleTrackerRequiresUserID(t *testing.T) {
	tracker := newTestCycleTracker(NewMemoryEntryPersistence(), "2025-04-12")
	if _, err := tracker.Session(context.Background(), " "); !errors.Is(err, ErrUserIDRequired) {
		t.Fatalf("expected ErrUserIDRequired, got %v", err)
	}
}

func TestCycleTrackerSessionStartCanMoveForwardFromCurrentMonth(t *testing.T) {
	ctx := context.Background()
	persistence := NewMemoryEntryPersistence()
	if _, err := persistence.Save(ctx, "alice", MustParseCalendarDate("2025-01-01"), 0); err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	tracker := newTestCycleTracker(persistence, "2025-04-12")

	session, err := tracker.Session(ctx, "alice")
	if err != nil {
		t.Fatalf("Session() unexpected error: %v", err)
	}
	if session.State.DisplayedMonth != 3 || session.Active == nil || !session.CanGoNext() {
		t.Fatalf("expected April with the stored cycle active and forward allowed, got %#v", session)
	}

	session, moved, err := tracker.NextMonth(ctx, "alice")
	if err != nil || !moved || session.State.DisplayedMonth != 4 || !session.State.CanGoBack {
		t.Fatalf("expected move to May, got %#v moved=%v err=%v", session.State, moved, err)
	}
}
