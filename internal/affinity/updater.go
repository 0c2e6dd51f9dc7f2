package affinity

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// ProfileStore is the external key-value collaborator holding the singleton
// affinity profile. Get must materialize a fresh neutral profile on first
// read; Save must persist the whole profile atomically. Storage failures
// propagate unchanged so a stale profile is never silently substituted.
type ProfileStore interface {
	GetProfile(ctx context.Context) (*models.AffinityProfile, error)
	SaveProfile(ctx context.Context, profile *models.AffinityProfile) error
}

// Updater applies feedback-driven deltas to the affinity profile.
//
// Every mutation is a read-modify-write round trip on the singleton profile,
// so all mutations are serialized through a single-writer lock. Reads of a
// snapshot go straight to the store.
type Updater struct {
	profiles ProfileStore
	config   *models.AffinityConfig
	mu       sync.Mutex
}

// NewUpdater creates an affinity updater.
// If config is nil, uses the default configuration.
func NewUpdater(profiles ProfileStore, config *models.AffinityConfig) *Updater {
	if config == nil {
		config = models.DefaultAffinityConfig()
	}
	return &Updater{profiles: profiles, config: config}
}

// Config returns the updater's learning parameters.
func (u *Updater) Config() *models.AffinityConfig {
	return u.config
}

// Locker exposes the single-writer lock so the decay scheduler can serialize
// its read-modify-write against feedback updates on the same profile.
func (u *Updater) Locker() sync.Locker {
	return &u.mu
}

// ApplyFeedback scales the feedback score by the learning rate and applies
// the resulting delta to every bucket the session touched: the session's
// discipline, every intent tag of the matched template (each tag gets the
// full delta, so multi-tag templates reinforce faster), the time slot of the
// session start, and the duration bucket of the session length.
//
// totalFeedbackEvents increments once per call regardless of how many
// buckets were touched. template may be nil when no catalog entry matched.
func (u *Updater) ApplyFeedback(ctx context.Context, session *models.Session, template *models.ContentTemplate, feedbackScore float64) (*models.AffinityProfile, error) {
	delta := feedbackScore * u.config.LearningRate

	u.mu.Lock()
	defer u.mu.Unlock()

	profile, err := u.profiles.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	if session.Discipline != "" {
		applyDelta(profile.Disciplines, session.Discipline, delta)
	}
	if template != nil {
		for _, tag := range template.IntentTags {
			applyDelta(profile.Tags, tag, delta)
		}
	}
	applyDelta(profile.TimeSlots, string(session.TimeSlot()), delta)
	applyDelta(profile.DurationBuckets, string(session.DurationBucket()), delta)

	profile.TotalFeedbackEvents++

	if err := u.profiles.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	log.Debug().
		Float64("feedback", feedbackScore).
		Float64("delta", delta).
		Str("discipline", session.Discipline).
		Int("events", profile.TotalFeedbackEvents).
		Msg("Affinity feedback applied")

	return profile, nil
}

// ApplyDismissal applies the fixed dismissal delta to the template's
// discipline, its intent tags, the time slot parsed from its best-time
// label, and the duration bucket parsed from its guidance text.
func (u *Updater) ApplyDismissal(ctx context.Context, template *models.ContentTemplate) (*models.AffinityProfile, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	profile, err := u.profiles.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	delta := u.config.DismissDelta
	if template.Discipline != "" {
		applyDelta(profile.Disciplines, template.Discipline, delta)
	}
	for _, tag := range template.IntentTags {
		applyDelta(profile.Tags, tag, delta)
	}
	if slot, ok := models.ParseBestTimeSlot(template.BestTime); ok {
		applyDelta(profile.TimeSlots, string(slot), delta)
	}
	applyDelta(profile.DurationBuckets, string(models.ParseDurationBucket(template.DurationGuidance)), delta)

	if err := u.profiles.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	log.Debug().Str("template", template.ID).Msg("Affinity dismissal applied")
	return profile, nil
}

// ApplyFollow applies the fixed follow delta to the template's discipline and
// intent tags only. Time and duration buckets stay untouched: opening a
// recommendation is weaker evidence about scheduling than completing it.
func (u *Updater) ApplyFollow(ctx context.Context, template *models.ContentTemplate) (*models.AffinityProfile, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	profile, err := u.profiles.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	delta := u.config.FollowDelta
	if template.Discipline != "" {
		applyDelta(profile.Disciplines, template.Discipline, delta)
	}
	for _, tag := range template.IntentTags {
		applyDelta(profile.Tags, tag, delta)
	}

	if err := u.profiles.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	log.Debug().Str("template", template.ID).Msg("Affinity follow applied")
	return profile, nil
}

// applyDelta materializes the bucket at neutral if absent, applies the delta,
// and clamps the result to the weight bounds.
func applyDelta(weights models.JSONFloat64Map, key string, delta float64) {
	if key == "" {
		return
	}
	weights[key] = models.ClampWeight(weights.Weight(key) + delta)
}
