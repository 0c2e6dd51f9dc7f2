package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// PlanStore provides practice-plan operations using GORM.
type PlanStore struct {
	db *gorm.DB
}

// NewPlanStore creates a new plan store.
func NewPlanStore(store *Store) *PlanStore {
	return &PlanStore{db: store.DB}
}

// CreatePlan records a planned session.
func (s *PlanStore) CreatePlan(ctx context.Context, plan *models.PracticePlan) error {
	return s.db.WithContext(ctx).Create(&PracticePlan{
		ID:                     plan.ID,
		PlannedAt:              plan.PlannedAt,
		PlannedDurationMinutes: plan.PlannedDurationMinutes,
		SessionID:              plan.SessionID,
		Discipline:             plan.Discipline,
	}).Error
}

// GetPlan retrieves one plan by ID, nil when absent.
func (s *PlanStore) GetPlan(ctx context.Context, id string) (*models.PracticePlan, error) {
	var plan PracticePlan
	err := s.db.WithContext(ctx).First(&plan, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toModelPlan(&plan), nil
}

// ListPlans returns all plans ordered oldest first.
func (s *PlanStore) ListPlans(ctx context.Context) ([]*models.PracticePlan, error) {
	var rows []PracticePlan
	err := s.db.WithContext(ctx).Order("planned_at ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	plans := make([]*models.PracticePlan, 0, len(rows))
	for i := range rows {
		plans = append(plans, toModelPlan(&rows[i]))
	}
	return plans, nil
}

// LinkSession marks a plan completed by the given session.
func (s *PlanStore) LinkSession(ctx context.Context, planID, sessionID string) error {
	return s.db.WithContext(ctx).
		Model(&PracticePlan{}).
		Where("id = ?", planID).
		Update("session_id", sessionID).Error
}

// PlannedMinutesBySession returns planned durations keyed by the linked
// session ID, for plans that both set a duration and were completed.
func (s *PlanStore) PlannedMinutesBySession(ctx context.Context) (map[string]float64, error) {
	var rows []PracticePlan
	err := s.db.WithContext(ctx).
		Where("session_id != '' AND planned_duration_minutes > 0").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	planned := make(map[string]float64, len(rows))
	for i := range rows {
		planned[rows[i].SessionID] = rows[i].PlannedDurationMinutes
	}
	return planned, nil
}
