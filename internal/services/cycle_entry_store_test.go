package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

type failingEntryPersistence struct {
	saveErr  error
	fetchErr error
	saves    int
}

func (stub *failingEntryPersistence) Save(context.Context, string, CalendarDate, int) (CycleEntry, error) {
	stub.saves++
	return CycleEntry{}, stub.saveErr
}

func (stub *failingEntryPersistence) FetchHistory(context.Context, string) ([]CycleEntry, error) {
	return nil, stub.fetchErr
}

func TestCycleEntryStoreAddEntryAppendsInOrder(t *testing.T) {
	store := NewCycleEntryStore(NewMemoryEntryPersistence())
	ctx := context.Background()

	for _, raw := range []string{"2025-01-01", "2025-01-29", "2025-02-26", "2025-03-26"} {
		if _, err := store.AddEntry(ctx, "alice", MustParseCalendarDate(raw), 0); err != nil {
			t.Fatalf("AddEntry(%s) unexpected error: %v", raw, err)
		}
	}

	all := store.ListEntries("alice", 0)
	if len(all) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(all))
	}
	if all[0].PeriodStartDate.String() != "2025-01-01" || all[3].PeriodStartDate.String() != "2025-03-26" {
		t.Fatalf("expected insertion order, got %s..%s", all[0].PeriodStartDate, all[3].PeriodStartDate)
	}

	recent := store.LastN("alice", DefaultHistoryLimit)
	if len(recent) != 3 {
		t.Fatalf("expected 3 recent entries, got %d", len(recent))
	}
	if recent[0].PeriodStartDate.String() != "2025-01-29" {
		t.Fatalf("expected recent window to start at 2025-01-29, got %s", recent[0].PeriodStartDate)
	}

	latest, ok := store.Latest("alice")
	if !ok || latest.PeriodStartDate.String() != "2025-03-26" {
		t.Fatalf("unexpected latest entry: %#v ok=%v", latest, ok)
	}
}

func TestCycleEntryStoreKeepsUsersSeparate(t *testing.T) {
	store := NewCycleEntryStore(NewMemoryEntryPersistence())
	ctx := context.Background()

	if _, err := store.AddEntry(ctx, "alice", MustParseCalendarDate("2025-01-01"), 0); err != nil {
		t.Fatalf("AddEntry() unexpected error: %v", err)
	}

	if got := store.ListEntries("bob", 0); len(got) != 0 {
		t.Fatalf("expected no entries for bob, got %d", len(got))
	}
	if got := store.LastN("alice", 0); len(got) != 0 {
		t.Fatalf("expected empty result for n=0, got %d", len(got))
	}
	if _, ok := store.Latest("bob"); ok {
		t.Fatalf("expected no latest entry for bob")
	}
}

func TestCycleEntryStoreAddEntryAttachesComputedPhases(t *testing.T) {
	store := NewCycleEntryStore(NewMemoryEntryPersistence())

	entry, err := store.AddEntry(context.Background(), "alice", MustParseCalendarDate("2025-01-01"), 30)
	if err != nil {
		t.Fatalf("AddEntry() unexpected error: %v", err)
	}
	if entry.ID == "" || entry.CreatedAt.IsZero() {
		t.Fatalf("expected id and creation time, got %#v", entry)
	}
	if entry.CycleLengthHint != 30 {
		t.Fatalf("expected hint 30, got %d", entry.CycleLengthHint)
	}
	if entry.Phases.NextPeriodStart().String() != "2025-01-31" {
		t.Fatalf("expected next period on 2025-01-31, got %s", entry.Phases.NextPeriodStart())
	}
}

func TestCycleEntryStorePersistenceFailureLeavesHistoryUntouched(t *testing.T) {
	persistence := &failingEntryPersistence{saveErr: errors.New("disk full")}
	store := NewCycleEntryStore(persistence)

	_, err := store.AddEntry(context.Background(), "alice", MustParseCalendarDate("2025-01-01"), 0)
	if !errors.Is(err, ErrPersistenceFailure) {
		t.Fatalf("expected ErrPersistenceFailure, got %v", err)
	}
	if persistence.saves != 1 {
		t.Fatalf("expected one save attempt, got %d", persistence.saves)
	}
	if got := store.ListEntries("alice", 0); len(got) != 0 {
		t.Fatalf("expected no entries after failed save, got %d", len(got))
	}
}

func TestCycleEntryStoreRejectsInvalidInput(t *testing.T) {
	persistence := &failingEntryPersistence{}
	store := NewCycleEntryStore(persistence)

	if _, err := store.AddEntry(context.Background(), "alice", CalendarDate{Year: 2025, Month: 2, Day: 30}, 0); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := store.AddEntry(context.Background(), "  ", MustParseCalendarDate("2025-01-01"), 0); !errors.Is(err, ErrUserIDRequired) {
		t.Fatalf("expected ErrUserIDRequired, got %v", err)
	}
	if persistence.saves != 0 {
		t.Fatalf("expected invalid input to never reach persistence, got %d saves", persistence.saves)
	}
}

func TestCycleEntryStoreLoadHistory(t *testing.T) {
	ctx := context.Background()
	persistence := NewMemoryEntryPersistence()
	for _, raw := range []string{"2025-01-01", "2025-01-30"} {
		if _, err := persistence.Save(ctx, "alice", MustParseCalendarDate(raw), 0); err != nil {
			t.Fatalf("seed save: %v", err)
		}
	}

	store := NewCycleEntryStore(persistence)
	if err := store.LoadHistory(ctx, "alice"); err != nil {
		t.Fatalf("LoadHistory() unexpected error: %v", err)
	}
	history := store.ListEntries("alice", 0)
	if len(history) != 2 || history[1].PeriodStartDate.String() != "2025-01-30" {
		t.Fatalf("unexpected loaded history: %#v", history)
	}

	failing := NewCycleEntryStore(&failingEntryPersistence{fetchErr: errors.New("offline")})
	if err := failing.LoadHistory(ctx, "alice"); !errors.Is(err, ErrPersistenceFailure) {
		t.Fatalf("expected ErrPersistenceFailure, got %v", err)
	}
}

func TestCycleEntryStoreReturnsCopies(t *testing.T) {
	store := NewCycleEntryStore(nil)
	entry, err := store.AddEntry(context.Background(), "alice", MustParseCalendarDate("2025-01-01"), 0)
	if err != nil {
		t.Fatalf("AddEntry() unexpected error: %v", err)
	}

	entry.Phases.PeriodDays[0] = MustParseCalendarDate("1999-01-01")
	listed := store.ListEntries("alice", 0)
	if listed[0].Phases.PeriodDays[0].String() != "2025-01-01" {
		t.Fatalf("expected stored entry to be unaffected by caller mutation")
	}
}

func TestCycleEntryStoreConcurrentAddsSameUser(t *testing.T) {
	store := NewCycleEntryStore(NewMemoryEntryPersistence())
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for index := 0; index < writers; index++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			start := MustParseCalendarDate("2025-01-01").AddDays(offset)
			if _, err := store.AddEntry(ctx, "alice", start, 0); err != nil {
				errs <- fmt.Errorf("add %d: %w", offset, err)
			}
		}(index)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("unexpected concurrent add error: %v", err)
	}
	if got := len(store.ListEntries("alice", 0)); got != writers {
		t.Fatalf("expected %d entries, got %d", writers, got)
	}
}
