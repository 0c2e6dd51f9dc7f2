package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// fixedRand always returns the same value, making ranking deterministic.
type fixedRand struct{ v float64 }

func (r fixedRand) Float64() float64 { return r.v }

type ScorerSuite struct {
	suite.Suite
	scorer *Scorer
}

func (s *ScorerSuite) SetupTest() {
	s.scorer = NewScorer(DefaultConfig(), fixedRand{v: 0})
}

func (s *ScorerSuite) TestExperienceGateExcludes() {
	catalog := []*models.ContentTemplate{
		{ID: "advanced", MinExperienceHours: 100},
		{ID: "open", MinExperienceHours: 5},
	}
	patterns := PracticePatterns{TotalHours: 10, DominantTimeSlot: DominantSlotMixed}

	ranked := s.scorer.Rank(catalog, patterns, nil)
	s.Require().Len(ranked, 1)
	s.Equal("open", ranked[0].Template.ID)
}

func (s *ScorerSuite) TestSavedTemplatesAreRemoved() {
	catalog := []*models.ContentTemplate{
		{ID: "a"},
		{ID: "b"},
	}
	patterns := PracticePatterns{DominantTimeSlot: DominantSlotMixed}

	ranked := s.scorer.Rank(catalog, patterns, map[string]bool{"a": true})
	s.Require().Len(ranked, 1)
	s.Equal("b", ranked[0].Template.ID)
}

func (s *ScorerSuite) TestDisciplineTermCaps() {
	patterns := PracticePatterns{
		DisciplineFrequency: map[string]int{"Vipassana": 3, "Zazen": 40},
		DominantTimeSlot:    DominantSlotMixed,
	}

	moderate := s.scorer.score(&models.ContentTemplate{Discipline: "Vipassana"}, patterns)
	s.InDelta(15, moderate.Score, 1e-9)

	heavy := s.scorer.score(&models.ContentTemplate{Discipline: "Zazen"}, patterns)
	s.InDelta(30, heavy.Score, 1e-9, "40 sessions still cap at 30")
}

func (s *ScorerSuite) TestIntentOverlapAgainstSavedTags() {
	patterns := PracticePatterns{
		SavedTagFrequency: map[string]int{"focus": 3, "sleep": 1},
		DominantTimeSlot:  DominantSlotMixed,
	}
	tpl := &models.ContentTemplate{IntentTags: models.JSONStringArray{"focus", "sleep", "energy"}}

	scored := s.scorer.score(tpl, patterns)
	s.InDelta(16, scored.Score, 1e-9, "two overlapping tags at 8 each")
	s.Contains(scored.Reasons[0], "focus")
}

func (s *ScorerSuite) TestTimeMatchBonus() {
	patterns := PracticePatterns{DominantTimeSlot: "morning"}

	matched := s.scorer.score(&models.ContentTemplate{BestTime: "Morning"}, patterns)
	s.InDelta(15, matched.Score, 1e-9)

	anytime := s.scorer.score(&models.ContentTemplate{BestTime: "Anytime"}, patterns)
	s.InDelta(15, anytime.Score, 1e-9, "anytime always matches")

	mismatched := s.scorer.score(&models.ContentTemplate{BestTime: "Evening"}, patterns)
	s.Zero(mismatched.Score)
}

func (s *ScorerSuite) TestAnytimeMatchesEvenWhenMixed() {
	patterns := PracticePatterns{DominantTimeSlot: DominantSlotMixed}

	scored := s.scorer.score(&models.ContentTemplate{BestTime: "anytime"}, patterns)
	s.InDelta(15, scored.Score, 1e-9)
}

func (s *ScorerSuite) TestCommunityValidationCaps() {
	patterns := PracticePatterns{DominantTimeSlot: DominantSlotMixed}

	modest := s.scorer.score(&models.ContentTemplate{Karma: 16, Saves: 9}, patterns)
	s.InDelta(7, modest.Score, 1e-9, "sqrt(16)+sqrt(9)")

	viral := s.scorer.score(&models.ContentTemplate{Karma: 10000, Saves: 10000}, patterns)
	s.InDelta(20, viral.Score, 1e-9, "community term caps at 20")
}

func (s *ScorerSuite) TestRankSortsDescending() {
	catalog := []*models.ContentTemplate{
		{ID: "weak"},
		{ID: "strong", Discipline: "Vipassana", Karma: 100},
		{ID: "middle", Karma: 100},
	}
	patterns := PracticePatterns{
		DisciplineFrequency: map[string]int{"Vipassana": 4},
		DominantTimeSlot:    DominantSlotMixed,
	}

	ranked := s.scorer.Rank(catalog, patterns, nil)
	s.Require().Len(ranked, 3)
	s.Equal("strong", ranked[0].Template.ID)
	s.Equal("middle", ranked[1].Template.ID)
	s.Equal("weak", ranked[2].Template.ID)
}

func (s *ScorerSuite) TestTopCandidateCarriesReasons() {
	catalog := []*models.ContentTemplate{
		{ID: "pick", Discipline: "Yoga Nidra", Karma: 50},
	}
	patterns := PracticePatterns{
		DisciplineFrequency: map[string]int{"Yoga Nidra": 6},
		DominantTimeSlot:    DominantSlotMixed,
	}

	ranked := s.scorer.Rank(catalog, patterns, nil)
	s.Require().Len(ranked, 1)
	s.Require().NotEmpty(ranked[0].Reasons)
	s.Contains(ranked[0].Reasons[0], "Yoga Nidra")
}

func TestScorerSuite(t *testing.T) {
	suite.Run(t, new(ScorerSuite))
}

func TestExplorationTermIsBounded(t *testing.T) {
	// Max random draw adds strictly under ExplorationMax.
	floor := NewScorer(DefaultConfig(), fixedRand{v: 0})
	ceiling := NewScorer(DefaultConfig(), fixedRand{v: 0.999999})

	tpl := &models.ContentTemplate{ID: "a"}
	patterns := PracticePatterns{DominantTimeSlot: DominantSlotMixed}

	low := floor.Rank([]*models.ContentTemplate{tpl}, patterns, nil)
	high := ceiling.Rank([]*models.ContentTemplate{tpl}, patterns, nil)
	require.Len(t, low, 1)
	require.Len(t, high, 1)

	assert.Zero(t, low[0].Score)
	assert.Greater(t, high[0].Score, 9.0)
	assert.Less(t, high[0].Score, 10.0)
}

func TestNilRandFallsBack(t *testing.T) {
	scorer := NewScorer(DefaultConfig(), nil)
	ranked := scorer.Rank([]*models.ContentTemplate{{ID: "a"}}, PracticePatterns{}, nil)
	require.Len(t, ranked, 1)
	assert.GreaterOrEqual(t, ranked[0].Score, 0.0)
	assert.Less(t, ranked[0].Score, 10.0)
}
