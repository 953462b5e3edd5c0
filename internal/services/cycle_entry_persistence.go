package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/cycletrack/internal/models"
)

type CycleEntryRepository interface {
	Create(ctx context.Context, entry *models.CycleEntry) error
	ListByUser(ctx context.Context, userID string) ([]models.CycleEntry, error)
}

// RepositoryEntryPersistence adapts a row repository to EntryPersistence.
type RepositoryEntryPersistence struct {
	entries CycleEntryRepository
	now     func() time.Time
}

func NewRepositoryEntryPersistence(entries CycleEntryRepository) *RepositoryEntryPersistence {
	return &RepositoryEntryPersistence{
		entries: entries,
		now:     time.Now,
	}
}

func (persistence *RepositoryEntryPersistence) Save(ctx context.Context, userID string, periodStart CalendarDate, cycleLengthHint int) (CycleEntry, error) {
	row := models.CycleEntry{
		PublicID:        uuid.NewString(),
		UserID:          strings.TrimSpace(userID),
		PeriodStart:     periodStart.Time(),
		CycleLengthHint: normalizeCycleLengthHint(cycleLengthHint),
		CreatedAt:       persistence.now().UTC(),
	}
	if err := persistence.entries.Create(ctx, &row); err != nil {
		return CycleEntry{}, err
	}
	return CycleEntryFromModel(row)
}

func (persistence *RepositoryEntryPersistence) FetchHistory(ctx context.Context, userID string) ([]CycleEntry, error) {
	rows, err := persistence.entries.ListByUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}

	history := make([]CycleEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := CycleEntryFromModel(row)
		if err != nil {
			return nil, err
		}
		history = append(history, entry)
	}
	return history, nil
}

// CycleEntryFromModel rebuilds the phases of a stored row. Phases are never
// stored; they are a pure function of the start date and the hint.
func CycleEntryFromModel(row models.CycleEntry) (CycleEntry, error) {
	periodStart := DateOf(row.PeriodStart)
	phases, err := ComputePhases(periodStart, row.CycleLengthHint)
	if err != nil {
		return CycleEntry{}, err
	}
	return CycleEntry{
		ID:              row.PublicID,
		PeriodStartDate: periodStart,
		CycleLengthHint: row.CycleLengthHint,
		Phases:          phases,
		CreatedAt:       row.CreatedAt,
	}, nil
}

// MemoryEntryPersistence keeps entries in process memory.
type MemoryEntryPersistence struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string][]CycleEntry
}

func NewMemoryEntryPersistence() *MemoryEntryPersistence {
	return &MemoryEntryPersistence{
		now:     time.Now,
		entries: make(map[string][]CycleEntry),
	}
}

func (persistence *MemoryEntryPersistence) Save(_ context.Context, userID string, periodStart CalendarDate, cycleLengthHint int) (CycleEntry, error) {
	phases, err := ComputePhases(periodStart, cycleLengthHint)
	if err != nil {
		return CycleEntry{}, err
	}

	entry := CycleEntry{
		ID:              uuid.NewString(),
		PeriodStartDate: periodStart,
		CycleLengthHint: normalizeCycleLengthHint(cycleLengthHint),
		Phases:          phases,
		CreatedAt:       persistence.now().UTC(),
	}

	persistence.mu.Lock()
	defer persistence.mu.Unlock()
	key := strings.TrimSpace(userID)
	persistence.entries[key] = append(persistence.entries[key], entry)
	return entry.clone(), nil
}

func (persistence *MemoryEntryPersistence) FetchHistory(_ context.Context, userID string) ([]CycleEntry, error) {
	persistence.mu.Lock()
	defer persistence.mu.Unlock()

	stored := persistence.entries[strings.TrimSpace(userID)]
	history := make([]CycleEntry, 0, len(stored))
	for _, entry := range stored {
		history = append(history, entry.clone())
	}
	return history, nil
}
