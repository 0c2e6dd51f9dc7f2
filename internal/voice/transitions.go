package voice

import (
	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// CheckTierTransition compares two voice scores and reports an upgrade only
// when the tier index strictly increases and the score strictly grew. Scores
// oscillating across a band boundary therefore fire at most once per real
// climb.
func CheckTierTransition(previous, current int) (models.TierTransition, bool) {
	from := models.TierForScore(previous)
	to := models.TierForScore(current)
	if models.TierIndex(to) <= models.TierIndex(from) || current <= previous {
		return models.TierTransition{}, false
	}
	return models.TierTransition{From: from, To: to, Upgraded: true}, true
}

// CrossedThresholds returns every growth threshold satisfying
// previous < threshold <= current, in ascending order. A single large score
// jump can cross several thresholds at once.
func CrossedThresholds(previous, current int) []models.GrowthThreshold {
	crossed := []models.GrowthThreshold{}
	for _, t := range models.DefaultGrowthThresholds {
		if previous < t.Score && t.Score <= current {
			crossed = append(crossed, t)
		}
	}
	return crossed
}
