package gorm

import (
	"time"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// Session is the GORM entity for a completed practice session.
type Session struct {
	ID              string    `gorm:"primaryKey"`
	StartedAt       time.Time `gorm:"index;not null"`
	EndedAt         time.Time `gorm:"not null"`
	DurationMinutes float64   `gorm:"not null"`
	Discipline      string    `gorm:"index"`
	Pose            string
	Notes           string
}

// PracticePlan is the GORM entity for a planned session.
type PracticePlan struct {
	ID                     string    `gorm:"primaryKey"`
	PlannedAt              time.Time `gorm:"index;not null"`
	PlannedDurationMinutes float64
	SessionID              string `gorm:"index"`
	Discipline             string
}

// ContentTemplate is the GORM entity for a catalog entry.
type ContentTemplate struct {
	ID                 string                 `gorm:"primaryKey"`
	Title              string                 `gorm:"not null"`
	Discipline         string                 `gorm:"index"`
	IntentTags         models.JSONStringArray `gorm:"type:text"`
	BestTime           string
	DurationGuidance   string
	MinExperienceHours float64
	Karma              int
	Saves              int
	Completions        int
}

// SavedTemplate marks a catalog entry the user saved.
type SavedTemplate struct {
	TemplateID string    `gorm:"primaryKey"`
	SavedAt    time.Time `gorm:"not null"`
	Used       bool      // the user practiced from it at least once
}

// AffinityProfile is the GORM entity for the singleton preference profile.
// The row always has ID 1.
type AffinityProfile struct {
	ID                  int64                 `gorm:"primaryKey"`
	Tags                models.JSONFloat64Map `gorm:"type:text"`
	Disciplines         models.JSONFloat64Map `gorm:"type:text"`
	TimeSlots           models.JSONFloat64Map `gorm:"type:text"`
	DurationBuckets     models.JSONFloat64Map `gorm:"type:text"`
	TotalFeedbackEvents int
	LastDecayAt         time.Time
}

// Insight is the GORM entity for a captured reflection.
type Insight struct {
	ID        string `gorm:"primaryKey"`
	SessionID string `gorm:"index"`
	Text      string `gorm:"not null"`
	Shared    bool
	CreatedAt time.Time `gorm:"index"`
}

// Notification is the GORM entity for a milestone notification. The title is
// unique so threshold crossings never duplicate.
type Notification struct {
	ID        string `gorm:"primaryKey"`
	Kind      string `gorm:"index;not null"`
	Title     string `gorm:"uniqueIndex;not null"`
	Message   string
	CreatedAt time.Time `gorm:"index"`
}

// VoiceSnapshot holds the last computed voice score. The row always has
// ID 1; tier transitions and threshold crossings compare against it.
type VoiceSnapshot struct {
	ID         int64 `gorm:"primaryKey"`
	Total      int
	ComputedAt time.Time
}

// CourseProgress is the GORM entity for progress through a multi-step course.
type CourseProgress struct {
	CourseID       string `gorm:"primaryKey"`
	Title          string `gorm:"not null"`
	CompletedSteps int
	TotalSteps     int
}

func toModelSession(s *Session) *models.Session {
	return &models.Session{
		ID:              s.ID,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		DurationMinutes: s.DurationMinutes,
		Discipline:      s.Discipline,
		Pose:            s.Pose,
		Notes:           s.Notes,
	}
}

func fromModelSession(s *models.Session) *Session {
	return &Session{
		ID:              s.ID,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		DurationMinutes: s.DurationMinutes,
		Discipline:      s.Discipline,
		Pose:            s.Pose,
		Notes:           s.Notes,
	}
}

func toModelPlan(p *PracticePlan) *models.PracticePlan {
	return &models.PracticePlan{
		ID:                     p.ID,
		PlannedAt:              p.PlannedAt,
		PlannedDurationMinutes: p.PlannedDurationMinutes,
		SessionID:              p.SessionID,
		Discipline:             p.Discipline,
	}
}

func toModelTemplate(t *ContentTemplate) *models.ContentTemplate {
	return &models.ContentTemplate{
		ID:                 t.ID,
		Title:              t.Title,
		Discipline:         t.Discipline,
		IntentTags:         t.IntentTags,
		BestTime:           t.BestTime,
		DurationGuidance:   t.DurationGuidance,
		MinExperienceHours: t.MinExperienceHours,
		Karma:              t.Karma,
		Saves:              t.Saves,
		Completions:        t.Completions,
	}
}

func fromModelTemplate(t *models.ContentTemplate) *ContentTemplate {
	return &ContentTemplate{
		ID:                 t.ID,
		Title:              t.Title,
		Discipline:         t.Discipline,
		IntentTags:         t.IntentTags,
		BestTime:           t.BestTime,
		DurationGuidance:   t.DurationGuidance,
		MinExperienceHours: t.MinExperienceHours,
		Karma:              t.Karma,
		Saves:              t.Saves,
		Completions:        t.Completions,
	}
}

func toModelProfile(p *AffinityProfile) *models.AffinityProfile {
	return &models.AffinityProfile{
		ID:                  p.ID,
		Tags:                p.Tags,
		Disciplines:         p.Disciplines,
		TimeSlots:           p.TimeSlots,
		DurationBuckets:     p.DurationBuckets,
		TotalFeedbackEvents: p.TotalFeedbackEvents,
		LastDecayAt:         p.LastDecayAt,
	}
}

func fromModelProfile(p *models.AffinityProfile) *AffinityProfile {
	return &AffinityProfile{
		ID:                  p.ID,
		Tags:                p.Tags,
		Disciplines:         p.Disciplines,
		TimeSlots:           p.TimeSlots,
		DurationBuckets:     p.DurationBuckets,
		TotalFeedbackEvents: p.TotalFeedbackEvents,
		LastDecayAt:         p.LastDecayAt,
	}
}

func toModelInsight(i *Insight) *models.Insight {
	return &models.Insight{
		ID:        i.ID,
		SessionID: i.SessionID,
		Text:      i.Text,
		Shared:    i.Shared,
		CreatedAt: i.CreatedAt,
	}
}

func toModelNotification(n *Notification) *models.Notification {
	return &models.Notification{
		ID:        n.ID,
		Kind:      models.NotificationKind(n.Kind),
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	}
}

func toModelCourse(c *CourseProgress) *models.CourseProgress {
	return &models.CourseProgress{
		CourseID:       c.CourseID,
		Title:          c.Title,
		CompletedSteps: c.CompletedSteps,
		TotalSteps:     c.TotalSteps,
	}
}
