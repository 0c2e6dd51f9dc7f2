package affinity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// DecayScheduler pulls every materialized weight toward neutral on a weekly
// cadence, bounding drift and keeping room for exploration. The pass runs at
// most once per decay interval; inside the window it is an idempotent no-op.
// The external caller decides when to invoke it - there is no internal timer.
type DecayScheduler struct {
	profiles ProfileStore
	config   *models.AffinityConfig
	mu       sync.Locker
}

// NewDecayScheduler creates a decay scheduler. lock serializes profile
// read-modify-write against the updater; pass the updater's Locker so both
// writers share one queue. If config is nil, uses the default configuration.
func NewDecayScheduler(profiles ProfileStore, config *models.AffinityConfig, lock sync.Locker) *DecayScheduler {
	if config == nil {
		config = models.DefaultAffinityConfig()
	}
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &DecayScheduler{profiles: profiles, config: config, mu: lock}
}

// DecayIfDue runs one decay pass when the interval has elapsed since the
// last one. Every weight w becomes w*(1-rate) + neutral*rate. lastDecayAt
// advances to now whenever the pass runs, even if no weights exist yet.
// Returns whether a pass ran.
func (s *DecayScheduler) DecayIfDue(ctx context.Context, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.profiles.GetProfile(ctx)
	if err != nil {
		return false, fmt.Errorf("get profile: %w", err)
	}

	if now.Sub(profile.LastDecayAt) < s.config.DecayInterval {
		return false, nil
	}

	decayed := 0
	rate := s.config.DecayRate
	for _, weights := range profile.AllWeightMaps() {
		for key, w := range weights {
			weights[key] = w*(1-rate) + models.NeutralWeight*rate
			decayed++
		}
	}
	profile.LastDecayAt = now

	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return false, fmt.Errorf("save profile: %w", err)
	}

	log.Info().Int("weights", decayed).Time("at", now).Msg("Affinity decay pass completed")
	return true, nil
}
