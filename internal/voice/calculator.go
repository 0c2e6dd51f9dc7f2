// Package voice computes the composite 0-100 practice-credibility score from
// aggregate counters. Everything here is pure; callers supply a snapshot and
// persist the result themselves.
package voice

import (
	"math"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// Calculator computes voice scores from a VoiceConfig.
type Calculator struct {
	config *models.VoiceConfig
}

// NewCalculator creates a voice calculator. A nil config falls back to the
// defaults.
func NewCalculator(config *models.VoiceConfig) *Calculator {
	if config == nil {
		config = models.DefaultVoiceConfig()
	}
	return &Calculator{config: config}
}

// Calculate computes the full voice score from the input snapshot. Each of
// the eleven factors is a capped diminishing-returns transform of one raw
// counter; each component renormalizes its factor sum to its share of 100.
func (c *Calculator) Calculate(inputs models.VoiceInputs) models.VoiceScore {
	cfg := c.config

	hours := factor("practice_hours", inputs.TotalHours,
		math.Log10(inputs.TotalHours+1)*cfg.HoursLogScale, cfg.HoursCap)
	depth := factor("session_depth", inputs.AvgSessionMinutes,
		(inputs.AvgSessionMinutes/cfg.DepthPerMinutes)*cfg.DepthScale, cfg.DepthCap)
	consistency := factor("consistency", inputs.SessionsPerWeekAvg,
		inputs.SessionsPerWeekAvg*cfg.ConsistencyRate, cfg.ConsistencyCap)
	practice := component(cfg.PracticeRawCap, cfg.PracticeShare, hours, depth, consistency)

	pearls := factor("pearls_shared", float64(inputs.PearlsShared),
		math.Sqrt(float64(inputs.PearlsShared))*cfg.PearlsScale, cfg.PearlsCap)
	meditations := factor("meditations_created", float64(inputs.MeditationsCreated),
		math.Sqrt(float64(inputs.MeditationsCreated))*cfg.MeditationsScale, cfg.MeditationsCap)
	contribution := component(cfg.ContributionRawCap, cfg.ContributionShare, pearls, meditations)

	karma := factor("karma_received", float64(inputs.KarmaReceived),
		math.Sqrt(float64(inputs.KarmaReceived))*cfg.KarmaScale, cfg.KarmaCap)
	savedBy := factor("saved_by_others", float64(inputs.ContentSavedByOthers),
		math.Sqrt(float64(inputs.ContentSavedByOthers))*cfg.SavedByOthersScale, cfg.SavedByOthersCap)
	completions := factor("meditation_completions", float64(inputs.MeditationCompletions),
		math.Sqrt(float64(inputs.MeditationCompletions))*cfg.CompletionsScale, cfg.CompletionsCap)
	received := component(cfg.ReceivedRawCap, cfg.ReceivedShare, karma, savedBy, completions)

	karmaGiven := factor("karma_given", float64(inputs.KarmaGiven),
		math.Sqrt(float64(inputs.KarmaGiven))*cfg.KarmaGivenScale, cfg.KarmaGivenCap)
	savesMade := factor("saves_made", float64(inputs.SavesMade),
		math.Sqrt(float64(inputs.SavesMade))*cfg.SavesMadeScale, cfg.SavesMadeCap)
	completionsDone := factor("completions_performed", float64(inputs.CompletionsPerformed),
		math.Sqrt(float64(inputs.CompletionsPerformed))*cfg.CompletionsDoneScale, cfg.CompletionsDoneCap)
	given := component(cfg.GivenRawCap, cfg.GivenShare, karmaGiven, savesMade, completionsDone)

	total := int(math.Round(practice + contribution + received + given))
	if total > 100 {
		total = 100
	}

	return models.VoiceScore{
		Total:              total,
		Practice:           practice,
		Contribution:       contribution,
		ValidationReceived: received,
		ValidationGiven:    given,
		Factors: []models.FactorScore{
			hours, depth, consistency,
			pearls, meditations,
			karma, savedBy, completions,
			karmaGiven, savesMade, completionsDone,
		},
	}
}

// factor builds one factor breakdown, capping the transformed value.
func factor(name string, raw, transformed, cap float64) models.FactorScore {
	return models.FactorScore{
		Name:  name,
		Raw:   raw,
		Score: math.Min(transformed, cap),
		Cap:   cap,
	}
}

// component renormalizes a factor sum against the component's raw cap to its
// share of the 100-point total.
func component(rawCap, share float64, factors ...models.FactorScore) float64 {
	sum := 0.0
	for _, f := range factors {
		sum += f.Score
	}
	return (sum / rawCap) * share
}
