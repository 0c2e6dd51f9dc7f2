// Package affinity maintains the user's learned preference profile:
// implicit feedback derivation, learning-rate weight updates, and the
// weekly decay toward neutral.
package affinity

import (
	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// FeedbackContext carries the optional signals observed around a completed
// session. Zero values mean the signal was absent.
type FeedbackContext struct {
	// PlannedDurationMinutes is the duration the user planned, 0 if none.
	PlannedDurationMinutes float64 `json:"planned_duration_minutes,omitempty"`
	// SavedAfter is true when the user saved the content right after.
	SavedAfter bool `json:"saved_after,omitempty"`
	// InsightCaptured is true when the user wrote down an insight.
	InsightCaptured bool `json:"insight_captured,omitempty"`
}

// Deriver converts a completed session plus its context into a scalar
// feedback value in [-1, 1].
type Deriver struct {
	config *models.FeedbackConfig
}

// NewDeriver creates a feedback deriver.
// If config is nil, uses the default configuration.
func NewDeriver(config *models.FeedbackConfig) *Deriver {
	if config == nil {
		config = models.DefaultFeedbackConfig()
	}
	return &Deriver{config: config}
}

// Derive computes the implicit feedback score for one session.
//
// lifetimeAvgMinutes is the user's average session length over all history;
// pass 0 for a user with no history and the configured default stands in.
//
// Completion rate against the plan earns a boost at or above the high band
// and a penalty below the low band; the range between is a deliberate dead
// zone that neither rewards nor punishes. Independently, running well past
// the lifetime average, saving the content, and capturing an insight each
// add their boost. The result is clamped to [-1, 1].
func (d *Deriver) Derive(session *models.Session, fctx FeedbackContext, lifetimeAvgMinutes float64) float64 {
	cfg := d.config
	score := 0.0

	if fctx.PlannedDurationMinutes > 0 {
		completionRate := session.DurationMinutes / fctx.PlannedDurationMinutes
		switch {
		case completionRate >= cfg.CompletionHighRate:
			score += cfg.CompletionHighBoost
		case completionRate < cfg.CompletionLowRate:
			score += cfg.CompletionLowPenalty
		}
	}

	avg := lifetimeAvgMinutes
	if avg <= 0 {
		avg = cfg.DefaultAvgMinutes
	}
	if session.DurationMinutes > cfg.LongSessionRatio*avg {
		score += cfg.LongSessionBoost
	}

	if fctx.SavedAfter {
		score += cfg.SavedBoost
	}
	if fctx.InsightCaptured {
		score += cfg.InsightBoost
	}

	return clampScore(score)
}

// clampScore bounds a feedback score to [-1, 1].
func clampScore(score float64) float64 {
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}
