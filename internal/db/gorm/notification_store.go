package gorm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// NotificationStore persists milestone notifications using GORM.
type NotificationStore struct {
	db *gorm.DB
}

// NewNotificationStore creates a new notification store.
func NewNotificationStore(store *Store) *NotificationStore {
	return &NotificationStore{db: store.DB}
}

// CreateUnique inserts a notification unless one with the same title already
// exists. Returns whether a row was created. Threshold crossings rechecked
// on every recalculation stay single-shot through this.
func (s *NotificationStore) CreateUnique(ctx context.Context, kind models.NotificationKind, title, message string, now time.Time) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "title"}},
			DoNothing: true,
		}).
		Create(&Notification{
			ID:        uuid.NewString(),
			Kind:      string(kind),
			Title:     title,
			Message:   message,
			CreatedAt: now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListNotifications returns notifications newest first.
func (s *NotificationStore) ListNotifications(ctx context.Context, limit int) ([]*models.Notification, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []Notification
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	notifications := make([]*models.Notification, 0, len(rows))
	for i := range rows {
		notifications = append(notifications, toModelNotification(&rows[i]))
	}
	return notifications, nil
}
