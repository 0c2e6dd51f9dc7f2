package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// SessionStore provides session and plan history operations using GORM.
type SessionStore struct {
	db *gorm.DB
}

// NewSessionStore creates a new session store.
func NewSessionStore(store *Store) *SessionStore {
	return &SessionStore{db: store.DB}
}

// CreateSession records a completed session.
func (s *SessionStore) CreateSession(ctx context.Context, session *models.Session) error {
	return s.db.WithContext(ctx).Create(fromModelSession(session)).Error
}

// GetSession retrieves one session by ID, nil when absent.
func (s *SessionStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var sess Session
	err := s.db.WithContext(ctx).First(&sess, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toModelSession(&sess), nil
}

// ListSessions returns all sessions ordered oldest first.
func (s *SessionStore) ListSessions(ctx context.Context) ([]*models.Session, error) {
	var rows []Session
	err := s.db.WithContext(ctx).Order("started_at ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	sessions := make([]*models.Session, 0, len(rows))
	for i := range rows {
		sessions = append(sessions, toModelSession(&rows[i]))
	}
	return sessions, nil
}

// ListSessionsSince returns sessions started at or after the cutoff, oldest
// first.
func (s *SessionStore) ListSessionsSince(ctx context.Context, cutoff time.Time) ([]*models.Session, error) {
	var rows []Session
	err := s.db.WithContext(ctx).
		Where("started_at >= ?", cutoff).
		Order("started_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	sessions := make([]*models.Session, 0, len(rows))
	for i := range rows {
		sessions = append(sessions, toModelSession(&rows[i]))
	}
	return sessions, nil
}

// SessionsByID returns the given sessions keyed by ID. Missing IDs are
// simply absent from the map.
func (s *SessionStore) SessionsByID(ctx context.Context, ids []string) (map[string]*models.Session, error) {
	byID := make(map[string]*models.Session, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var rows []Session
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		byID[rows[i].ID] = toModelSession(&rows[i])
	}
	return byID, nil
}
