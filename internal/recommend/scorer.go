package recommend

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// Rand is the injectable random source behind the exploration term. Tests
// pin it for deterministic ranking; production wraps math/rand.
type Rand interface {
	Float64() float64
}

// Config contains the scoring weights and caps for catalog ranking.
type Config struct {
	// DisciplineWeight multiplies the session count in the candidate's
	// discipline, capped at DisciplineCap.
	DisciplineWeight float64
	DisciplineCap    float64

	// OverlapWeight multiplies the intent-tag overlap with saved templates,
	// capped at OverlapCap.
	OverlapWeight float64
	OverlapCap    float64

	// TimeMatchBonus is added when the candidate's best time matches the
	// dominant slot or states anytime.
	TimeMatchBonus float64

	// CommunityCap bounds the community-validation term
	// sqrt(karma) + sqrt(saves).
	CommunityCap float64

	// ExplorationMax bounds the uniform random exploration term added to
	// every candidate on every call.
	ExplorationMax float64
}

// DefaultConfig returns the default ranking weights.
func DefaultConfig() Config {
	return Config{
		DisciplineWeight: 5,
		DisciplineCap:    30,
		OverlapWeight:    8,
		OverlapCap:       25,
		TimeMatchBonus:   15,
		CommunityCap:     20,
		ExplorationMax:   10,
	}
}

// ScoredTemplate is one ranked catalog candidate with the reasons behind its
// score, strongest first. The top candidate's leading reason is what the
// presentation layer surfaces.
type ScoredTemplate struct {
	Template *models.ContentTemplate `json:"template"`
	Score    float64                 `json:"score"`
	Reasons  []string                `json:"reasons,omitempty"`
}

// Scorer ranks content templates against extracted practice patterns.
type Scorer struct {
	config Config
	rng    Rand
}

// NewScorer creates a catalog scorer. A nil rng falls back to a
// non-deterministic math/rand source.
func NewScorer(config Config, rng Rand) *Scorer {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Scorer{config: config, rng: rng}
}

// Rank scores every candidate and returns them sorted by descending score.
// Candidates whose experience gate exceeds the user's total hours, and
// candidates already saved, are excluded outright before scoring.
func (s *Scorer) Rank(catalog []*models.ContentTemplate, patterns PracticePatterns, savedIDs map[string]bool) []ScoredTemplate {
	ranked := make([]ScoredTemplate, 0, len(catalog))
	for _, tpl := range catalog {
		if tpl.MinExperienceHours > patterns.TotalHours {
			continue
		}
		if savedIDs[tpl.ID] {
			continue
		}
		ranked = append(ranked, s.score(tpl, patterns))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	log.Debug().
		Int("catalog", len(catalog)).
		Int("ranked", len(ranked)).
		Str("dominant_slot", patterns.DominantTimeSlot).
		Msg("Catalog ranking completed")

	return ranked
}

// score sums the four deterministic terms plus the exploration term for one
// candidate, collecting a reason string per contributing term.
func (s *Scorer) score(tpl *models.ContentTemplate, patterns PracticePatterns) ScoredTemplate {
	cfg := s.config
	total := 0.0
	reasons := []string{}

	if freq := patterns.DisciplineFrequency[tpl.Discipline]; freq > 0 {
		term := math.Min(float64(freq)*cfg.DisciplineWeight, cfg.DisciplineCap)
		total += term
		reasons = append(reasons, fmt.Sprintf("you practice %s often", tpl.Discipline))
	}

	overlap := 0
	matched := []string{}
	for _, tag := range tpl.IntentTags {
		if patterns.SavedTagFrequency[tag] > 0 {
			overlap++
			matched = append(matched, tag)
		}
	}
	if overlap > 0 {
		term := math.Min(float64(overlap)*cfg.OverlapWeight, cfg.OverlapCap)
		total += term
		reasons = append(reasons, fmt.Sprintf("matches what you save: %s", strings.Join(matched, ", ")))
	}

	if s.timeMatches(tpl, patterns.DominantTimeSlot) {
		total += cfg.TimeMatchBonus
		reasons = append(reasons, fmt.Sprintf("fits your usual %s practice", patterns.DominantTimeSlot))
	}

	community := math.Min(math.Sqrt(float64(tpl.Karma))+math.Sqrt(float64(tpl.Saves)), cfg.CommunityCap)
	if community > 0 {
		total += community
		reasons = append(reasons, "well received by the community")
	}

	// Exploration noise keeps the list from ossifying around the same
	// top candidates.
	total += s.rng.Float64() * cfg.ExplorationMax

	return ScoredTemplate{Template: tpl, Score: total, Reasons: reasons}
}

// timeMatches reports whether the candidate suits the dominant slot, either
// by naming it or by declaring itself good anytime.
func (s *Scorer) timeMatches(tpl *models.ContentTemplate, dominant string) bool {
	if tpl.MatchesAnytime() {
		return true
	}
	if dominant == DominantSlotMixed || dominant == "" {
		return false
	}
	slot, ok := models.ParseBestTimeSlot(tpl.BestTime)
	return ok && string(slot) == dominant
}
