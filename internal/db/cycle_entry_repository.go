package db

import (
	"context"
	"strings"

	"github.com/terraincognita07/cycletrack/internal/models"
	"gorm.io/gorm"
)

type CycleEntryRepository struct {
	database *gorm.DB
}

func NewCycleEntryRepository(database *gorm.DB) *CycleEntryRepository {
	return &CycleEntryRepository{database: database}
}

func (repo *CycleEntryRepository) Create(ctx context.Context, entry *models.CycleEntry) error {
	return repo.database.WithContext(ctx).Create(entry).Error
}

// ListByUser returns the user's entries in insertion order.
func (repo *CycleEntryRepository) ListByUser(ctx context.Context, userID string) ([]models.CycleEntry, error) {
	entries := make([]models.CycleEntry, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListLatestPerUser returns the most recently inserted entry of every user.
func (repo *CycleEntryRepository) ListLatestPerUser(ctx context.Context) ([]models.CycleEntry, error) {
	latestIDs := repo.database.
		Model(&models.CycleEntry{}).
		Select("MAX(id)").
		Group("user_id")

	entries := make([]models.CycleEntry, 0)
	if err := repo.database.WithContext(ctx).
		Where("id IN (?)", latestIDs).
		Order("user_id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *CycleEntryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := repo.database.WithContext(ctx).
		Model(&models.CycleEntry{}).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
