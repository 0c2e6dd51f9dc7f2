package insights

import (
	"time"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// Trend labels for commitment stats.
const (
	TrendNew       = "new"
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendSteady    = "steady"
)

// CommitmentStats compares plans that have come due against the sessions
// actually completed for them. sessionsByID resolves a plan's linked session.
// Future plans are ignored; with no past-due plans the stats are zero and the
// trend reads new.
func (a *Analyzer) CommitmentStats(plans []*models.PracticePlan, sessionsByID map[string]*models.Session, now time.Time) models.CommitmentStats {
	due := make([]*models.PracticePlan, 0, len(plans))
	for _, p := range plans {
		if !p.PlannedAt.After(now) {
			due = append(due, p)
		}
	}
	if len(due) == 0 {
		return models.CommitmentStats{Trend: TrendNew}
	}

	stats := models.CommitmentStats{PlansTotal: len(due)}
	for _, p := range due {
		if p.PlannedDurationMinutes > 0 {
			stats.PlannedMinutes += p.PlannedDurationMinutes
		} else {
			stats.PlannedMinutes += a.config.EstimatedPlanMinutes
		}
		if !p.Completed() {
			continue
		}
		stats.PlansCompleted++
		if s, ok := sessionsByID[p.SessionID]; ok {
			stats.ActualMinutes += s.DurationMinutes
		}
	}

	stats.CompletionRate = percent(stats.PlansCompleted, stats.PlansTotal)
	if stats.PlannedMinutes > 0 {
		stats.OverUnderPercent = (stats.ActualMinutes - stats.PlannedMinutes) / stats.PlannedMinutes * 100
	}
	stats.Trend = a.commitmentTrend(due, now)
	return stats
}

// commitmentTrend compares the completion rate of the most recent window
// against the window before it. Both windows need enough plans, and the rate
// has to move outside the hysteresis band, before the trend leaves steady.
func (a *Analyzer) commitmentTrend(due []*models.PracticePlan, now time.Time) string {
	windowStart := now.AddDate(0, 0, -a.config.TrendWindowDays)
	priorStart := now.AddDate(0, 0, -2*a.config.TrendWindowDays)

	var recentTotal, recentDone, priorTotal, priorDone int
	for _, p := range due {
		switch {
		case p.PlannedAt.After(windowStart):
			recentTotal++
			if p.Completed() {
				recentDone++
			}
		case p.PlannedAt.After(priorStart):
			priorTotal++
			if p.Completed() {
				priorDone++
			}
		}
	}

	if recentTotal < a.config.TrendMinPlans || priorTotal < a.config.TrendMinPlans {
		return TrendSteady
	}

	diff := percent(recentDone, recentTotal) - percent(priorDone, priorTotal)
	switch {
	case diff > a.config.TrendHysteresis:
		return TrendImproving
	case diff < -a.config.TrendHysteresis:
		return TrendDeclining
	default:
		return TrendSteady
	}
}
