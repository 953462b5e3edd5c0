package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultHistoryLimit = 3

var (
	ErrPersistenceFailure = errors.New("cycle entry persistence failed")
	ErrUserIDRequired     = errors.New("user id is required")
)

type CycleEntry struct {
	ID              string       `json:"id"`
	PeriodStartDate CalendarDate `json:"period_date"`
	CycleLengthHint int          `json:"cycle_length,omitempty"`
	Phases          PhaseSet     `json:"phases"`
	CreatedAt       time.Time    `json:"created_at"`
}

// EntryPersistence is the storage collaborator behind the entry store.
// FetchHistory returns entries oldest first and an empty slice for unknown users.
type EntryPersistence interface {
	Save(ctx context.Context, userID string, periodStart CalendarDate, cycleLengthHint int) (CycleEntry, error)
	FetchHistory(ctx context.Context, userID string) ([]CycleEntry, error)
}

type CycleEntryStore struct {
	persistence EntryPersistence
	now         func() time.Time

	mu        sync.Mutex
	entries   map[string][]CycleEntry
	userLocks map[string]*sync.Mutex
}

func NewCycleEntryStore(persistence EntryPersistence) *CycleEntryStore {
	return &CycleEntryStore{
		persistence: persistence,
		now:         time.Now,
		entries:     make(map[string][]CycleEntry),
		userLocks:   make(map[string]*sync.Mutex),
	}
}

// AddEntry computes the phases for periodStart, hands the entry to the
// persistence collaborator and appends it. Nothing is appended when the
// collaborator fails. Calls for the same user run one at a time.
func (store *CycleEntryStore) AddEntry(ctx context.Context, userID string, periodStart CalendarDate, cycleLengthHint int) (CycleEntry, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return CycleEntry{}, ErrUserIDRequired
	}

	phases, err := ComputePhases(periodStart, cycleLengthHint)
	if err != nil {
		return CycleEntry{}, err
	}

	lock := store.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	entry := CycleEntry{
		PeriodStartDate: periodStart,
		CycleLengthHint: normalizeCycleLengthHint(cycleLengthHint),
		Phases:          phases,
	}

	if store.persistence != nil {
		saved, err := store.persistence.Save(ctx, userID, periodStart, entry.CycleLengthHint)
		if err != nil {
			return CycleEntry{}, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
		}
		entry.ID = saved.ID
		entry.CreatedAt = saved.CreatedAt
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = store.now().UTC()
	}

	store.mu.Lock()
	store.entries[userID] = append(store.entries[userID], entry)
	store.mu.Unlock()

	return entry.clone(), nil
}

// LoadHistory replaces the cached history of userID with the collaborator's copy.
func (store *CycleEntryStore) LoadHistory(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrUserIDRequired
	}
	if store.persistence == nil {
		return nil
	}

	lock := store.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	history, err := store.persistence.FetchHistory(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}

	loaded := make([]CycleEntry, 0, len(history))
	for _, entry := range history {
		loaded = append(loaded, entry.clone())
	}

	store.mu.Lock()
	store.entries[userID] = loaded
	store.mu.Unlock()
	return nil
}

// ListEntries returns the history of userID oldest first. A positive limit
// keeps only the most recent entries.
func (store *CycleEntryStore) ListEntries(userID string, limit int) []CycleEntry {
	store.mu.Lock()
	defer store.mu.Unlock()

	entries := store.entries[strings.TrimSpace(userID)]
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	result := make([]CycleEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, entry.clone())
	}
	return result
}

func (store *CycleEntryStore) LastN(userID string, n int) []CycleEntry {
	if n <= 0 {
		return []CycleEntry{}
	}
	return store.ListEntries(userID, n)
}

func (store *CycleEntryStore) Latest(userID string) (CycleEntry, bool) {
	latest := store.LastN(userID, 1)
	if len(latest) == 0 {
		return CycleEntry{}, false
	}
	return latest[0], true
}

func (store *CycleEntryStore) userLock(userID string) *sync.Mutex {
	store.mu.Lock()
	defer store.mu.Unlock()

	lock, ok := store.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		store.userLocks[userID] = lock
	}
	return lock
}

func (entry CycleEntry) clone() CycleEntry {
	entry.Phases = entry.Phases.clone()
	return entry
}

func normalizeCycleLengthHint(cycleLengthHint int) int {
	if cycleLengthHint <= 0 {
		return 0
	}
	return cycleLengthHint
}
