package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// InsightStore persists captured reflections using GORM.
type InsightStore struct {
	db *gorm.DB
}

// NewInsightStore creates a new insight store.
func NewInsightStore(store *Store) *InsightStore {
	return &InsightStore{db: store.DB}
}

// CreateInsight records a reflection.
func (s *InsightStore) CreateInsight(ctx context.Context, insight *models.Insight) error {
	return s.db.WithContext(ctx).Create(&Insight{
		ID:        insight.ID,
		SessionID: insight.SessionID,
		Text:      insight.Text,
		Shared:    insight.Shared,
		CreatedAt: insight.CreatedAt,
	}).Error
}

// MarkShared flags an insight as shared.
func (s *InsightStore) MarkShared(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Model(&Insight{}).
		Where("id = ?", id).
		Update("shared", true).Error
}

// ListInsights returns all insights oldest first.
func (s *InsightStore) ListInsights(ctx context.Context) ([]*models.Insight, error) {
	var rows []Insight
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	insights := make([]*models.Insight, 0, len(rows))
	for i := range rows {
		insights = append(insights, toModelInsight(&rows[i]))
	}
	return insights, nil
}
