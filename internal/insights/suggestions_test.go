package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

func actionKinds(actions []models.SuggestedAction) []string {
	kinds := make([]string, 0, len(actions))
	for _, a := range actions {
		kinds = append(kinds, a.Kind)
	}
	return kinds
}

func TestSuggestedActions_EmptyHistory(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// No sessions at all: even fallbacks stay quiet.
	assert.Empty(t, a.SuggestedActions(SuggestionInputs{}))
}

func TestSuggestedActions_UnfinishedCourse(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	inputs := SuggestionInputs{
		Courses: []*models.CourseProgress{
			{CourseID: "c1", Title: "Foundations of Breath", CompletedSteps: 3, TotalSteps: 7},
		},
	}
	actions := a.SuggestedActions(inputs)
	require.NotEmpty(t, actions)
	assert.Equal(t, "finish_course", actions[0].Kind)
	assert.Contains(t, actions[0].Title, "Foundations of Breath")
}

func TestSuggestedActions_CompletedCourseStaysQuiet(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	inputs := SuggestionInputs{
		Courses: []*models.CourseProgress{
			{CourseID: "c1", Title: "Done", CompletedSteps: 7, TotalSteps: 7},
			{CourseID: "c2", Title: "Never started", CompletedSteps: 0, TotalSteps: 5},
		},
	}
	assert.NotContains(t, actionKinds(a.SuggestedActions(inputs)), "finish_course")
}

func TestSuggestedActions_UnusedSaves(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	inputs := SuggestionInputs{
		SavedTemplates: []*models.ContentTemplate{
			{ID: "t1", Title: "Evening Wind-Down"},
			{ID: "t2", Title: "Morning Clarity"},
		},
		UsedTemplateIDs: map[string]bool{"t2": true},
	}
	actions := a.SuggestedActions(inputs)
	require.NotEmpty(t, actions)
	assert.Equal(t, "use_saved", actions[0].Kind)
	assert.Contains(t, actions[0].Title, "Evening Wind-Down")
}

func TestSuggestedActions_DisciplineImbalance(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	sessions := []*models.Session{}
	for i := 1; i <= 6; i++ {
		sessions = append(sessions, sessionOn(2025, 6, i, 7, 20, "Vipassana", ""))
	}
	sessions = append(sessions, sessionOn(2025, 6, 7, 7, 20, "Zazen", ""))

	actions := a.SuggestedActions(SuggestionInputs{Sessions: sessions})
	kinds := actionKinds(actions)
	assert.Contains(t, kinds, "vary_discipline")
}

func TestSuggestedActions_UnsharedInsights(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	inputs := SuggestionInputs{
		Insights: []*models.Insight{
			{ID: "i1"}, {ID: "i2"}, {ID: "i3", Shared: true}, {ID: "i4"},
		},
	}
	actions := a.SuggestedActions(inputs)
	require.NotEmpty(t, actions)
	assert.Equal(t, "share_insights", actions[0].Kind)

	// Two unshared is below the bar.
	inputs.Insights = inputs.Insights[:3]
	assert.NotContains(t, actionKinds(a.SuggestedActions(inputs)), "share_insights")
}

func TestSuggestedActions_SinglePose(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	sessions := []*models.Session{}
	for i := 1; i <= 5; i++ {
		sessions = append(sessions, sessionOn(2025, 6, i, 7, 20, "", "seated"))
	}
	assert.Contains(t, actionKinds(a.SuggestedActions(SuggestionInputs{Sessions: sessions})), "vary_pose")

	// A second pose anywhere in the history disarms the rule.
	sessions = append(sessions, sessionOn(2025, 6, 6, 7, 20, "", "lying"))
	assert.NotContains(t, actionKinds(a.SuggestedActions(SuggestionInputs{Sessions: sessions})), "vary_pose")
}

func TestSuggestedActions_FallbacksWhenQuiet(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Three varied sessions trip no gap rule, so the fallbacks fill in.
	sessions := []*models.Session{
		sessionOn(2025, 6, 2, 7, 20, "Vipassana", "seated"),
		sessionOn(2025, 6, 3, 13, 20, "Zazen", "lying"),
		sessionOn(2025, 6, 4, 19, 20, "Metta", "walking"),
	}
	actions := a.SuggestedActions(SuggestionInputs{Sessions: sessions})
	kinds := actionKinds(actions)
	assert.Contains(t, kinds, "try_discipline")
	assert.Contains(t, kinds, "plan_ahead")
	assert.Contains(t, kinds, "capture_insight")
}

func TestSuggestedActions_SortedAndTruncated(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Trip many rules at once: unfinished course, unused saves, imbalance,
	// weak day, unshared insights, single pose.
	sessions := []*models.Session{}
	day := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC) // Monday
	for i := 0; i < 10; i++ {
		start := day.AddDate(0, 0, (i%5)*7) // Mondays across five weeks
		sessions = append(sessions, &models.Session{
			StartedAt:       start,
			EndedAt:         start.Add(20 * time.Minute),
			DurationMinutes: 20,
			Discipline:      "Vipassana",
			Pose:            "seated",
		})
	}
	inputs := SuggestionInputs{
		Sessions: sessions,
		SavedTemplates: []*models.ContentTemplate{
			{ID: "t1", Title: "Unused"},
		},
		Courses: []*models.CourseProgress{
			{CourseID: "c1", Title: "Half Done", CompletedSteps: 1, TotalSteps: 4},
		},
		Insights: []*models.Insight{{ID: "i1"}, {ID: "i2"}, {ID: "i3"}},
	}

	actions := a.SuggestedActions(inputs)
	require.Len(t, actions, 4, "truncated to the top four")
	for i := 1; i < len(actions); i++ {
		assert.LessOrEqual(t, actions[i-1].Priority, actions[i].Priority)
	}
	assert.Equal(t, "finish_course", actions[0].Kind)
}
