// Package insights derives human-readable views of the user's practice:
// pattern cards, planned-versus-actual commitment stats, a monthly growth
// trajectory and prioritized suggested actions. All four analyses are pure
// functions over caller-supplied snapshots.
package insights

// Config contains the thresholds for the insight analyses.
type Config struct {
	// MinPatternSessions is the minimum sample size before a pattern card
	// can surface.
	MinPatternSessions int

	// TimeSlotMinPercent is the dominance bar for the time-of-day card.
	TimeSlotMinPercent float64
	// DisciplineMinPercent is the dominance bar for the discipline card.
	DisciplineMinPercent float64
	// PoseMinPercent is the dominance bar for the pose card.
	PoseMinPercent float64

	// WeekdayPercent is the Mon-Fri share that makes a weekday-dominant card.
	WeekdayPercent float64
	// WeekendPercent is the Sat/Sun share that makes a weekend-dominant card.
	WeekendPercent float64
	// SingleDayPercent is the single-day share for the fallback day card.
	SingleDayPercent float64

	// EstimatedPlanMinutes substitutes for plans with no set duration.
	EstimatedPlanMinutes float64
	// TrendWindowDays is the length of each commitment-trend window.
	TrendWindowDays int
	// TrendMinPlans is the minimum plans per window before a trend is called.
	TrendMinPlans int
	// TrendHysteresis is the completion-rate band, in percentage points,
	// inside which the trend reads steady.
	TrendHysteresis float64

	// GrowthMonths is how many trailing calendar months the trajectory keeps.
	GrowthMonths int
	// GrowthChangePercent is the average-minutes change that counts as
	// deepening or shortening.
	GrowthChangePercent float64

	// ImbalancePercent is the dominant-discipline share that reads as
	// imbalance when few disciplines have been tried.
	ImbalancePercent float64
	// ImbalanceMaxDisciplines is the distinct-discipline count under which
	// imbalance can fire.
	ImbalanceMaxDisciplines int
	// WeakDayShare is the fraction of the per-day average under which a
	// day counts as weak.
	WeakDayShare float64
	// WeakDayTotalShare is the fraction of all sessions a weak day must
	// stay under.
	WeakDayTotalShare float64
	// UnsharedInsightsMin is how many unshared insights prompt a nudge.
	UnsharedInsightsMin int

	// FallbackMinSessions gates the generic suggestions for light histories.
	FallbackMinSessions int
	// MaxSuggestions truncates the suggested-action list.
	MaxSuggestions int
}

// DefaultConfig returns the default analysis thresholds.
func DefaultConfig() Config {
	return Config{
		MinPatternSessions:      5,
		TimeSlotMinPercent:      40,
		DisciplineMinPercent:    40,
		PoseMinPercent:          60,
		WeekdayPercent:          75,
		WeekendPercent:          40,
		SingleDayPercent:        25,
		EstimatedPlanMinutes:    20,
		TrendWindowDays:         28,
		TrendMinPlans:           4,
		TrendHysteresis:         15,
		GrowthMonths:            4,
		GrowthChangePercent:     20,
		ImbalancePercent:        40,
		ImbalanceMaxDisciplines: 5,
		WeakDayShare:            0.5,
		WeakDayTotalShare:       0.1,
		UnsharedInsightsMin:     3,
		FallbackMinSessions:     3,
		MaxSuggestions:          4,
	}
}

// Analyzer runs the insight analyses.
type Analyzer struct {
	config Config
}

// NewAnalyzer creates an insights analyzer.
func NewAnalyzer(config Config) *Analyzer {
	return &Analyzer{config: config}
}

// strengthForDominance maps a dominance percentage to the 1-5 card strength.
func strengthForDominance(percent float64) int {
	switch {
	case percent >= 80:
		return 5
	case percent >= 65:
		return 4
	case percent >= 50:
		return 3
	case percent >= 35:
		return 2
	default:
		return 1
	}
}
