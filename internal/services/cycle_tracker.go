package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var ErrNoCycleEntries = errors.New("no cycle entries recorded")

type trackerSession struct {
	mu      sync.Mutex
	loaded  bool
	session CalendarSession
}

// CycleTracker owns one calendar session per user on top of the entry store.
type CycleTracker struct {
	store    *CycleEntryStore
	location *time.Location
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*trackerSession
}

func NewCycleTracker(store *CycleEntryStore, location *time.Location) *CycleTracker {
	if location == nil {
		location = time.Local
	}
	return &CycleTracker{
		store:    store,
		location: location,
		now:      time.Now,
		sessions: make(map[string]*trackerSession),
	}
}

// SetClock replaces the time source used to pick the current month.
func (tracker *CycleTracker) SetClock(now func() time.Time) {
	tracker.now = now
}

func (tracker *CycleTracker) Today() CalendarDate {
	return DateOf(tracker.now().In(tracker.location))
}

func (tracker *CycleTracker) Location() *time.Location {
	return tracker.location
}

// Session returns the calendar session of userID, loading the stored history
// on first use. A fresh session shows the current month and renders the
// latest recorded cycle.
func (tracker *CycleTracker) Session(ctx context.Context, userID string) (CalendarSession, error) {
	current, err := tracker.loadedSession(ctx, userID)
	if err != nil {
		return CalendarSession{}, err
	}
	defer current.mu.Unlock()
	return current.session, nil
}

// AddPeriod records a new period start. The view only moves to the new
// cycle once the entry has been persisted.
func (tracker *CycleTracker) AddPeriod(ctx context.Context, userID string, periodStart CalendarDate, cycleLengthHint int) (CycleEntry, CalendarSession, error) {
	current, err := tracker.loadedSession(ctx, userID)
	if err != nil {
		return CycleEntry{}, CalendarSession{}, err
	}
	defer current.mu.Unlock()

	entry, err := tracker.store.AddEntry(ctx, userID, periodStart, cycleLengthHint)
	if err != nil {
		return CycleEntry{}, current.session, err
	}

	current.session, _ = current.session.Apply(AddEntryEvent{Entry: entry})
	return entry, current.session, nil
}

func (tracker *CycleTracker) PrevMonth(ctx context.Context, userID string) (CalendarSession, bool, error) {
	return tracker.navigate(ctx, userID, PrevMonthEvent{})
}

func (tracker *CycleTracker) NextMonth(ctx context.Context, userID string) (CalendarSession, bool, error) {
	return tracker.navigate(ctx, userID, NextMonthEvent{})
}

func (tracker *CycleTracker) navigate(ctx context.Context, userID string, event NavigationEvent) (CalendarSession, bool, error) {
	current, err := tracker.loadedSession(ctx, userID)
	if err != nil {
		return CalendarSession{}, false, err
	}
	defer current.mu.Unlock()

	updated, moved := current.session.Apply(event)
	current.session = updated
	return updated, moved, nil
}

// History returns up to limit recent entries, oldest first. A non-positive
// limit falls back to DefaultHistoryLimit.
func (tracker *CycleTracker) History(ctx context.Context, userID string, limit int) ([]CycleEntry, error) {
	current, err := tracker.loadedSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	current.mu.Unlock()

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return tracker.store.LastN(strings.TrimSpace(userID), limit), nil
}

// Entries returns the whole history of userID, oldest first.
func (tracker *CycleTracker) Entries(ctx context.Context, userID string) ([]CycleEntry, error) {
	current, err := tracker.loadedSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	current.mu.Unlock()

	return tracker.store.ListEntries(strings.TrimSpace(userID), 0), nil
}

func (tracker *CycleTracker) Stats(ctx context.Context, userID string) (CycleStats, error) {
	entries, err := tracker.Entries(ctx, userID)
	if err != nil {
		return CycleStats{}, err
	}
	return BuildCycleStats(entries, tracker.Today()), nil
}

func (tracker *CycleTracker) Latest(ctx context.Context, userID string) (CycleEntry, error) {
	current, err := tracker.loadedSession(ctx, userID)
	if err != nil {
		return CycleEntry{}, err
	}
	current.mu.Unlock()

	entry, ok := tracker.store.Latest(strings.TrimSpace(userID))
	if !ok {
		return CycleEntry{}, ErrNoCycleEntries
	}
	return entry, nil
}

func (tracker *CycleTracker) Forecast(ctx context.Context, userID string, cycles int) (CycleEntry, []PhaseSet, error) {
	entry, err := tracker.Latest(ctx, userID)
	if err != nil {
		return CycleEntry{}, nil, err
	}
	forecast, err := ForecastCycles(entry, cycles)
	if err != nil {
		return CycleEntry{}, nil, err
	}
	return entry, forecast, nil
}

// loadedSession returns the user's session locked. Callers must unlock it.
func (tracker *CycleTracker) loadedSession(ctx context.Context, userID string) (*trackerSession, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	tracker.mu.Lock()
	current, ok := tracker.sessions[userID]
	if !ok {
		current = &trackerSession{}
		tracker.sessions[userID] = current
	}
	tracker.mu.Unlock()

	current.mu.Lock()
	if current.loaded {
		return current, nil
	}

	if err := tracker.store.LoadHistory(ctx, userID); err != nil {
		current.mu.Unlock()
		return nil, err
	}

	current.session = NewCalendarSession(tracker.Today())
	if latest, found := tracker.store.Latest(userID); found {
		phases := latest.Phases.clone()
		current.session.Active = &phases
	}
	current.loaded = true
	return current, nil
}
