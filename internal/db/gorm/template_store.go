package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// TemplateStore provides catalog, save and course operations using GORM.
type TemplateStore struct {
	db *gorm.DB
}

// NewTemplateStore creates a new template store.
func NewTemplateStore(store *Store) *TemplateStore {
	return &TemplateStore{db: store.DB}
}

// UpsertTemplate creates or replaces a catalog entry.
func (s *TemplateStore) UpsertTemplate(ctx context.Context, tpl *models.ContentTemplate) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(fromModelTemplate(tpl)).Error
}

// GetTemplate retrieves one catalog entry by ID, nil when absent.
func (s *TemplateStore) GetTemplate(ctx context.Context, id string) (*models.ContentTemplate, error) {
	var tpl ContentTemplate
	err := s.db.WithContext(ctx).First(&tpl, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toModelTemplate(&tpl), nil
}

// ListTemplates returns the full catalog.
func (s *TemplateStore) ListTemplates(ctx context.Context) ([]*models.ContentTemplate, error) {
	var rows []ContentTemplate
	err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	templates := make([]*models.ContentTemplate, 0, len(rows))
	for i := range rows {
		templates = append(templates, toModelTemplate(&rows[i]))
	}
	return templates, nil
}

// SaveTemplate marks a catalog entry saved. Saving twice is a no-op.
func (s *TemplateStore) SaveTemplate(ctx context.Context, templateID string, now time.Time) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "template_id"}},
			DoNothing: true,
		}).
		Create(&SavedTemplate{TemplateID: templateID, SavedAt: now}).Error
}

// UnsaveTemplate removes a save.
func (s *TemplateStore) UnsaveTemplate(ctx context.Context, templateID string) error {
	return s.db.WithContext(ctx).Delete(&SavedTemplate{}, "template_id = ?", templateID).Error
}

// MarkTemplateUsed records that the user practiced from a saved entry.
func (s *TemplateStore) MarkTemplateUsed(ctx context.Context, templateID string) error {
	return s.db.WithContext(ctx).
		Model(&SavedTemplate{}).
		Where("template_id = ?", templateID).
		Update("used", true).Error
}

// SavedTemplateIDs returns the IDs of all saved entries as a set.
func (s *TemplateStore) SavedTemplateIDs(ctx context.Context) (map[string]bool, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&SavedTemplate{}).
		Pluck("template_id", &ids).Error
	if err != nil {
		return nil, err
	}
	saved := make(map[string]bool, len(ids))
	for _, id := range ids {
		saved[id] = true
	}
	return saved, nil
}

// UsedTemplateIDs returns the saved entries the user has practiced from.
func (s *TemplateStore) UsedTemplateIDs(ctx context.Context) (map[string]bool, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&SavedTemplate{}).
		Where("used = ?", true).
		Pluck("template_id", &ids).Error
	if err != nil {
		return nil, err
	}
	used := make(map[string]bool, len(ids))
	for _, id := range ids {
		used[id] = true
	}
	return used, nil
}

// ListSavedTemplates returns the catalog entries the user saved.
func (s *TemplateStore) ListSavedTemplates(ctx context.Context) ([]*models.ContentTemplate, error) {
	var rows []ContentTemplate
	err := s.db.WithContext(ctx).
		Joins("JOIN saved_templates ON saved_templates.template_id = content_templates.id").
		Order("saved_templates.saved_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	templates := make([]*models.ContentTemplate, 0, len(rows))
	for i := range rows {
		templates = append(templates, toModelTemplate(&rows[i]))
	}
	return templates, nil
}

// UpsertCourse creates or updates course progress.
func (s *TemplateStore) UpsertCourse(ctx context.Context, course *models.CourseProgress) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}},
			UpdateAll: true,
		}).
		Create(&CourseProgress{
			CourseID:       course.CourseID,
			Title:          course.Title,
			CompletedSteps: course.CompletedSteps,
			TotalSteps:     course.TotalSteps,
		}).Error
}

// ListCourses returns all course progress rows.
func (s *TemplateStore) ListCourses(ctx context.Context) ([]*models.CourseProgress, error) {
	var rows []CourseProgress
	err := s.db.WithContext(ctx).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	courses := make([]*models.CourseProgress, 0, len(rows))
	for i := range rows {
		courses = append(courses, toModelCourse(&rows[i]))
	}
	return courses, nil
}
