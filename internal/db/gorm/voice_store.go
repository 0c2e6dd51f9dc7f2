package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// snapshotRowID is the fixed primary key of the singleton snapshot row.
const snapshotRowID = 1

// VoiceStore persists the last computed voice score.
type VoiceStore struct {
	db *gorm.DB
}

// NewVoiceStore creates a new voice snapshot store.
func NewVoiceStore(store *Store) *VoiceStore {
	return &VoiceStore{db: store.DB}
}

// LastScore returns the previously stored total, or 0 when none exists yet.
func (s *VoiceStore) LastScore(ctx context.Context) (int, error) {
	var row VoiceSnapshot
	err := s.db.WithContext(ctx).First(&row, snapshotRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Total, nil
}

// SaveScore stores the latest total.
func (s *VoiceStore) SaveScore(ctx context.Context, total int, now time.Time) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&VoiceSnapshot{ID: snapshotRowID, Total: total, ComputedAt: now}).Error
}
