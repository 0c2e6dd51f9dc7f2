package models

import "time"

// Insight is a short reflection the user captured after a session.
type Insight struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	Text      string    `json:"text"`
	Shared    bool      `json:"shared"`
	CreatedAt time.Time `json:"created_at"`
}

// PatternCard is one surfaced practice-shape pattern, strength 1-5.
type PatternCard struct {
	Kind        string  `json:"kind"` // time_of_day, discipline, pose, day_of_week
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Strength    int     `json:"strength"`
	Dominance   float64 `json:"dominance"` // percentage 0-100
	SampleSize  int     `json:"sample_size"`
}

// CommitmentStats compares planned practice against what actually happened.
type CommitmentStats struct {
	PlansTotal       int     `json:"plans_total"`
	PlansCompleted   int     `json:"plans_completed"`
	PlannedMinutes   float64 `json:"planned_minutes"`
	ActualMinutes    float64 `json:"actual_minutes"`
	CompletionRate   float64 `json:"completion_rate"`    // percentage 0-100
	OverUnderPercent float64 `json:"over_under_percent"` // actual vs planned minutes
	Trend            string  `json:"trend"`              // new, improving, declining, steady
}

// MonthlyPractice aggregates one calendar month of sessions.
type MonthlyPractice struct {
	Month        string  `json:"month"` // YYYY-MM
	Sessions     int     `json:"sessions"`
	TotalMinutes float64 `json:"total_minutes"`
	AvgMinutes   float64 `json:"avg_minutes"`
}

// GrowthTrajectory reports how the depth of practice is trending across the
// last few calendar months.
type GrowthTrajectory struct {
	Months        []MonthlyPractice `json:"months"`
	Direction     string            `json:"direction"` // deepening, shortening, stable, new
	ChangePercent float64           `json:"change_percent"`
}

// SuggestedAction is one prioritized nudge derived from a gap in the user's
// practice. Lower priority sorts first.
type SuggestedAction struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

// CourseProgress tracks how far the user is through a multi-step course.
type CourseProgress struct {
	CourseID       string `json:"course_id"`
	Title          string `json:"title"`
	CompletedSteps int    `json:"completed_steps"`
	TotalSteps     int    `json:"total_steps"`
}

// Unfinished reports whether the course was started but not completed.
func (c *CourseProgress) Unfinished() bool {
	return c.CompletedSteps > 0 && c.CompletedSteps < c.TotalSteps
}
