package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// profileRowID is the fixed primary key of the singleton profile row.
const profileRowID = 1

// ProfileStore persists the singleton affinity profile. Read-modify-write
// cycles are serialized by the caller; this store only does the I/O.
type ProfileStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewProfileStore creates a new profile store.
func NewProfileStore(store *Store) *ProfileStore {
	return &ProfileStore{db: store.DB, now: time.Now}
}

// GetProfile returns the profile, creating a neutral one on first read.
// Storage errors propagate; a stale or default profile is never silently
// substituted.
func (s *ProfileStore) GetProfile(ctx context.Context) (*models.AffinityProfile, error) {
	var row AffinityProfile
	err := s.db.WithContext(ctx).First(&row, profileRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fresh := models.NewAffinityProfile(s.now())
		fresh.ID = profileRowID
		if err := s.db.WithContext(ctx).Create(fromModelProfile(fresh)).Error; err != nil {
			return nil, err
		}
		return fresh, nil
	}
	if err != nil {
		return nil, err
	}
	return toModelProfile(&row), nil
}

// SaveProfile writes the profile back, replacing the existing row.
func (s *ProfileStore) SaveProfile(ctx context.Context, profile *models.AffinityProfile) error {
	row := fromModelProfile(profile)
	row.ID = profileRowID
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(row).Error
}

// ResetProfile deletes the stored profile. The next read recreates a
// neutral one; this is the only deletion path.
func (s *ProfileStore) ResetProfile(ctx context.Context) error {
	return s.db.WithContext(ctx).Delete(&AffinityProfile{}, profileRowID).Error
}
