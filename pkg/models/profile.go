package models

import "time"

// AffinityProfile is the persisted preference state for the local user.
// Weights are multiplicative preference strengths, neutral at 1.0 and bounded
// to [MinWeight, MaxWeight]. An absent key means neutral and is not eagerly
// created; only buckets that feedback has actually touched are materialized.
//
// There is exactly one profile row. It is created lazily on first read and
// mutated only through the affinity updater and the decay scheduler.
type AffinityProfile struct {
	ID                  int64          `json:"id"`
	Tags                JSONFloat64Map `json:"tags"`
	Disciplines         JSONFloat64Map `json:"disciplines"`
	TimeSlots           JSONFloat64Map `json:"time_slots"`
	DurationBuckets     JSONFloat64Map `json:"duration_buckets"`
	TotalFeedbackEvents int            `json:"total_feedback_events"`
	LastDecayAt         time.Time      `json:"last_decay_at"`
}

// NewAffinityProfile returns a fresh neutral profile.
func NewAffinityProfile(now time.Time) *AffinityProfile {
	return &AffinityProfile{
		Tags:            JSONFloat64Map{},
		Disciplines:     JSONFloat64Map{},
		TimeSlots:       JSONFloat64Map{},
		DurationBuckets: JSONFloat64Map{},
		LastDecayAt:     now,
	}
}

// Weight returns the materialized weight for a key, or neutral 1.0.
func (m JSONFloat64Map) Weight(key string) float64 {
	if w, ok := m[key]; ok {
		return w
	}
	return NeutralWeight
}

// AllWeightMaps returns the four bucket families for whole-profile sweeps
// such as decay.
func (p *AffinityProfile) AllWeightMaps() []JSONFloat64Map {
	return []JSONFloat64Map{p.Tags, p.Disciplines, p.TimeSlots, p.DurationBuckets}
}

// Affinity weight bounds.
const (
	// NeutralWeight is the implicit weight of any untouched bucket.
	NeutralWeight = 1.0
	// MinWeight is the weight floor.
	MinWeight = 0.5
	// MaxWeight is the weight ceiling.
	MaxWeight = 1.5
)

// ClampWeight bounds a weight to [MinWeight, MaxWeight].
func ClampWeight(w float64) float64 {
	if w < MinWeight {
		return MinWeight
	}
	if w > MaxWeight {
		return MaxWeight
	}
	return w
}

// AffinityConfig contains the learning parameters for the affinity updater
// and the decay scheduler.
type AffinityConfig struct {
	// LearningRate scales a feedback score into a weight delta.
	LearningRate float64 `json:"learning_rate"`

	// DismissDelta is the fixed delta applied when the user dismisses a
	// recommendation.
	DismissDelta float64 `json:"dismiss_delta"`

	// FollowDelta is the fixed delta applied when the user opens a
	// recommendation. It touches only discipline and tags: opening is weaker
	// evidence about scheduling than completing.
	FollowDelta float64 `json:"follow_delta"`

	// DecayRate is the fraction of the distance to neutral removed per decay
	// pass: w becomes w*(1-rate) + neutral*rate.
	DecayRate float64 `json:"decay_rate"`

	// DecayInterval is the minimum time between decay passes.
	DecayInterval time.Duration `json:"decay_interval"`
}

// DefaultAffinityConfig returns the default affinity learning parameters.
func DefaultAffinityConfig() *AffinityConfig {
	return &AffinityConfig{
		LearningRate:  0.1,
		DismissDelta:  -0.07, // -0.7 x learning rate
		FollowDelta:   0.05,
		DecayRate:     0.05,
		DecayInterval: 7 * 24 * time.Hour,
	}
}

// FeedbackConfig contains the signal weights for implicit feedback derivation.
type FeedbackConfig struct {
	// CompletionHighRate is the completion rate at or above which the
	// completion boost applies.
	CompletionHighRate float64 `json:"completion_high_rate"`
	// CompletionHighBoost is added for a near-complete session.
	CompletionHighBoost float64 `json:"completion_high_boost"`
	// CompletionLowRate is the completion rate below which the abandonment
	// penalty applies. Between the low and high rates is a deliberate dead
	// zone that neither rewards nor punishes.
	CompletionLowRate float64 `json:"completion_low_rate"`
	// CompletionLowPenalty is added for an abandoned session.
	CompletionLowPenalty float64 `json:"completion_low_penalty"`

	// LongSessionRatio is how far above the lifetime average a session must
	// run to earn the long-session boost.
	LongSessionRatio float64 `json:"long_session_ratio"`
	// LongSessionBoost is added for an unusually long session.
	LongSessionBoost float64 `json:"long_session_boost"`
	// DefaultAvgMinutes stands in for the lifetime average when the user has
	// no history yet.
	DefaultAvgMinutes float64 `json:"default_avg_minutes"`

	// SavedBoost is added when the user saves the content afterwards. It is
	// the dominant signal and outweighs the implicit proxies.
	SavedBoost float64 `json:"saved_boost"`
	// InsightBoost is added when the user captures an insight.
	InsightBoost float64 `json:"insight_boost"`
}

// DefaultFeedbackConfig returns the default feedback derivation weights.
func DefaultFeedbackConfig() *FeedbackConfig {
	return &FeedbackConfig{
		CompletionHighRate:   0.9,
		CompletionHighBoost:  0.3,
		CompletionLowRate:    0.5,
		CompletionLowPenalty: -0.5,
		LongSessionRatio:     1.2,
		LongSessionBoost:     0.3,
		DefaultAvgMinutes:    15,
		SavedBoost:           1.0,
		InsightBoost:         0.5,
	}
}
