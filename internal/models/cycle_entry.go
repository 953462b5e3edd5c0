package models

import "time"

// CycleEntry is one recorded period start. Phases are derived on read and
// never stored.
type CycleEntry struct {
	ID              uint      `gorm:"primaryKey"`
	PublicID        string    `gorm:"not null;uniqueIndex:idx_cycle_entries_public_id"`
	UserID          string    `gorm:"not null;index:idx_cycle_entries_user"`
	PeriodStart     time.Time `gorm:"type:date;not null"`
	CycleLengthHint int       `gorm:"not null;default:0"`
	CreatedAt       time.Time `gorm:"not null"`
}

func (CycleEntry) TableName() string {
	return "cycle_entries"
}
