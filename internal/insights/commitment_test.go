package insights

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

var commitNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func planDue(id string, daysAgo int, minutes float64, sessionID string) *models.PracticePlan {
	return &models.PracticePlan{
		ID:                     id,
		PlannedAt:              commitNow.AddDate(0, 0, -daysAgo),
		PlannedDurationMinutes: minutes,
		SessionID:              sessionID,
	}
}

func TestCommitmentStats_NoPastDuePlans(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	stats := a.CommitmentStats(nil, nil, commitNow)
	assert.Equal(t, TrendNew, stats.Trend)
	assert.Zero(t, stats.PlansTotal)
	assert.Zero(t, stats.PlannedMinutes)

	// A future plan alone still reads as new.
	future := []*models.PracticePlan{
		{ID: "f", PlannedAt: commitNow.AddDate(0, 0, 3), PlannedDurationMinutes: 30},
	}
	stats = a.CommitmentStats(future, nil, commitNow)
	assert.Equal(t, TrendNew, stats.Trend)
	assert.Zero(t, stats.PlansTotal)
}

func TestCommitmentStats_PlannedVersusActual(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	plans := []*models.PracticePlan{
		planDue("a", 3, 30, "s1"),
		planDue("b", 2, 0, "s2"), // no set duration: 20-minute estimate
		planDue("c", 1, 30, ""),  // missed
	}
	sessions := map[string]*models.Session{
		"s1": {ID: "s1", DurationMinutes: 40},
		"s2": {ID: "s2", DurationMinutes: 20},
	}

	stats := a.CommitmentStats(plans, sessions, commitNow)
	assert.Equal(t, 3, stats.PlansTotal)
	assert.Equal(t, 2, stats.PlansCompleted)
	assert.InDelta(t, 80, stats.PlannedMinutes, 1e-9)
	assert.InDelta(t, 60, stats.ActualMinutes, 1e-9)
	assert.InDelta(t, 66.67, stats.CompletionRate, 0.01)
	assert.InDelta(t, -25, stats.OverUnderPercent, 1e-9)
}

func TestCommitmentStats_TrendNeedsEnoughPlansBothSides(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Plenty of recent plans but only two prior ones: steady.
	plans := []*models.PracticePlan{}
	for i := 0; i < 6; i++ {
		plans = append(plans, planDue(fmt.Sprintf("r%d", i), i+1, 20, "s"))
	}
	plans = append(plans, planDue("p1", 30, 20, ""), planDue("p2", 35, 20, ""))

	stats := a.CommitmentStats(plans, nil, commitNow)
	assert.Equal(t, TrendSteady, stats.Trend)
}

func TestCommitmentStats_TrendImprovingAndDeclining(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Prior window: 1 of 4 completed. Recent window: 4 of 4 completed.
	plans := []*models.PracticePlan{
		planDue("r1", 1, 20, "s"), planDue("r2", 5, 20, "s"),
		planDue("r3", 10, 20, "s"), planDue("r4", 20, 20, "s"),
		planDue("p1", 30, 20, "s"), planDue("p2", 35, 20, ""),
		planDue("p3", 40, 20, ""), planDue("p4", 50, 20, ""),
	}
	stats := a.CommitmentStats(plans, nil, commitNow)
	assert.Equal(t, TrendImproving, stats.Trend)

	// Swap completion between the windows: declining.
	for _, p := range plans[:4] {
		p.SessionID = ""
	}
	for _, p := range plans[4:] {
		p.SessionID = "s"
	}
	stats = a.CommitmentStats(plans, nil, commitNow)
	assert.Equal(t, TrendDeclining, stats.Trend)
}

func TestCommitmentStats_HysteresisHoldsSteady(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Prior 2/4 versus recent 2/4: no movement, steady.
	plans := []*models.PracticePlan{
		planDue("r1", 1, 20, "s"), planDue("r2", 5, 20, "s"),
		planDue("r3", 10, 20, ""), planDue("r4", 20, 20, ""),
		planDue("p1", 30, 20, "s"), planDue("p2", 35, 20, "s"),
		planDue("p3", 40, 20, ""), planDue("p4", 50, 20, ""),
	}
	stats := a.CommitmentStats(plans, nil, commitNow)
	assert.Equal(t, TrendSteady, stats.Trend)
}
