package models

// VoiceInputs are the aggregate counters the voice score is computed from.
// Callers supply a fresh snapshot; this core never queries for them.
type VoiceInputs struct {
	TotalHours         float64 `json:"total_hours"`
	TotalSessions      int     `json:"total_sessions"`
	AvgSessionMinutes  float64 `json:"avg_session_minutes"`
	SessionsPerWeekAvg float64 `json:"sessions_per_week_avg"` // rolling 4-week average

	PearlsShared       int `json:"pearls_shared"`
	MeditationsCreated int `json:"meditations_created"`

	KarmaReceived         int `json:"karma_received"`
	ContentSavedByOthers  int `json:"content_saved_by_others"`
	MeditationCompletions int `json:"meditation_completions"`

	KarmaGiven           int `json:"karma_given"`
	SavesMade            int `json:"saves_made"`
	CompletionsPerformed int `json:"completions_performed"`
}

// FactorScore is the breakdown of one scoring factor: the raw input value,
// the capped sub-score it produced, and the cap itself.
type FactorScore struct {
	Name  string  `json:"name"`
	Raw   float64 `json:"raw"`
	Score float64 `json:"score"`
	Cap   float64 `json:"cap"`
}

// VoiceScore is the composite 0-100 practice-credibility score with its four
// component scores and all eleven per-factor breakdowns for transparency.
type VoiceScore struct {
	Total              int           `json:"total"`
	Practice           float64       `json:"practice"`
	Contribution       float64       `json:"contribution"`
	ValidationReceived float64       `json:"validation_received"`
	ValidationGiven    float64       `json:"validation_given"`
	Factors            []FactorScore `json:"factors"`
}

// VoiceConfig contains the caps, multipliers and component shares of the
// voice score. Every sub-score is a diminishing-returns transform of one raw
// counter, capped, then the component sum is renormalized to its share of 100.
type VoiceConfig struct {
	// Practice component (30% of total, raw cap 75).
	PracticeShare   float64 `json:"practice_share"`
	PracticeRawCap  float64 `json:"practice_raw_cap"`
	HoursLogScale   float64 `json:"hours_log_scale"`
	HoursCap        float64 `json:"hours_cap"`
	DepthPerMinutes float64 `json:"depth_per_minutes"`
	DepthScale      float64 `json:"depth_scale"`
	DepthCap        float64 `json:"depth_cap"`
	ConsistencyRate float64 `json:"consistency_rate"`
	ConsistencyCap  float64 `json:"consistency_cap"`

	// Contribution component (20% of total, raw cap 24).
	ContributionShare  float64 `json:"contribution_share"`
	ContributionRawCap float64 `json:"contribution_raw_cap"`
	PearlsScale        float64 `json:"pearls_scale"`
	PearlsCap          float64 `json:"pearls_cap"`
	MeditationsScale   float64 `json:"meditations_scale"`
	MeditationsCap     float64 `json:"meditations_cap"`

	// Validation-received component (25% of total, raw cap 47).
	ReceivedShare      float64 `json:"received_share"`
	ReceivedRawCap     float64 `json:"received_raw_cap"`
	KarmaScale         float64 `json:"karma_scale"`
	KarmaCap           float64 `json:"karma_cap"`
	SavedByOthersScale float64 `json:"saved_by_others_scale"`
	SavedByOthersCap   float64 `json:"saved_by_others_cap"`
	CompletionsScale   float64 `json:"completions_scale"`
	CompletionsCap     float64 `json:"completions_cap"`

	// Validation-given component (25% of total, raw cap 48).
	GivenShare               float64 `json:"given_share"`
	GivenRawCap              float64 `json:"given_raw_cap"`
	KarmaGivenScale          float64 `json:"karma_given_scale"`
	KarmaGivenCap            float64 `json:"karma_given_cap"`
	SavesMadeScale           float64 `json:"saves_made_scale"`
	SavesMadeCap             float64 `json:"saves_made_cap"`
	CompletionsDoneScale     float64 `json:"completions_done_scale"`
	CompletionsDoneCap       float64 `json:"completions_done_cap"`
}

// DefaultVoiceConfig returns the default voice scoring parameters.
func DefaultVoiceConfig() *VoiceConfig {
	return &VoiceConfig{
		PracticeShare:   30,
		PracticeRawCap:  75,
		HoursLogScale:   10,
		HoursCap:        40,
		DepthPerMinutes: 20,
		DepthScale:      5,
		DepthCap:        20,
		ConsistencyRate: 1.5,
		ConsistencyCap:  15,

		ContributionShare:  20,
		ContributionRawCap: 24,
		PearlsScale:        3,
		PearlsCap:          12,
		MeditationsScale:   5,
		MeditationsCap:     12,

		ReceivedShare:      25,
		ReceivedRawCap:     47,
		KarmaScale:         2,
		KarmaCap:           20,
		SavedByOthersScale: 3,
		SavedByOthersCap:   15,
		CompletionsScale:   1.5,
		CompletionsCap:     12,

		GivenShare:           25,
		GivenRawCap:          48,
		KarmaGivenScale:      2,
		KarmaGivenCap:        15,
		SavesMadeScale:       3,
		SavesMadeCap:         15,
		CompletionsDoneScale: 2.5,
		CompletionsDoneCap:   18,
	}
}

// VoiceTier is the label attached to a voice score band.
type VoiceTier string

const (
	TierNewcomer     VoiceTier = "newcomer"
	TierPractitioner VoiceTier = "practitioner"
	TierEstablished  VoiceTier = "established"
	TierRespected    VoiceTier = "respected"
	TierMentor       VoiceTier = "mentor"
)

// voiceTierBands lists the tier bands ascending. Bounds are inclusive and
// the bands are disjoint.
var voiceTierBands = []struct {
	Min  int
	Max  int
	Tier VoiceTier
}{
	{0, 19, TierNewcomer},
	{20, 44, TierPractitioner},
	{45, 69, TierEstablished},
	{70, 84, TierRespected},
	{85, 100, TierMentor},
}

// TierForScore maps a voice score to its tier.
func TierForScore(score int) VoiceTier {
	for _, band := range voiceTierBands {
		if score >= band.Min && score <= band.Max {
			return band.Tier
		}
	}
	if score < 0 {
		return TierNewcomer
	}
	return TierMentor
}

// TierIndex returns the ordinal position of a tier, newcomer being 0.
func TierIndex(tier VoiceTier) int {
	for i, band := range voiceTierBands {
		if band.Tier == tier {
			return i
		}
	}
	return 0
}

// TierTransition describes a tier change between two voice scores.
type TierTransition struct {
	From     VoiceTier `json:"from"`
	To       VoiceTier `json:"to"`
	Upgraded bool      `json:"upgraded"`
}

// GrowthThreshold is one fixed score threshold with its notification copy.
type GrowthThreshold struct {
	Score   int    `json:"score"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// DefaultGrowthThresholds is the fixed ascending threshold list checked on
// every voice recalculation. A threshold fires when the previous score was
// below it and the current score reaches it.
var DefaultGrowthThresholds = []GrowthThreshold{
	{Score: 20, Title: "A practice takes root", Message: "Your voice score reached 20. Your practice is becoming part of your life."},
	{Score: 45, Title: "An established voice", Message: "Your voice score reached 45. The community is hearing from you."},
	{Score: 70, Title: "A respected voice", Message: "Your voice score reached 70. Your experience carries weight here."},
	{Score: 85, Title: "A mentor's presence", Message: "Your voice score reached 85. Others are learning from your path."},
}
