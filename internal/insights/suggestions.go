package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// SuggestionInputs is the snapshot the suggested-action rules evaluate.
// UsedTemplateIDs holds the saved templates the user has actually practiced
// from at least once.
type SuggestionInputs struct {
	Sessions        []*models.Session
	SavedTemplates  []*models.ContentTemplate
	UsedTemplateIDs map[string]bool
	Courses         []*models.CourseProgress
	Insights        []*models.Insight
}

// SuggestedActions evaluates the gap-driven rules independently, sorts the
// fired suggestions by ascending priority and truncates the list. When too
// few gap rules fire and the user has some history, generic fallbacks fill
// the gap.
func (a *Analyzer) SuggestedActions(inputs SuggestionInputs) []models.SuggestedAction {
	actions := []models.SuggestedAction{}
	for _, rule := range []func(SuggestionInputs) (models.SuggestedAction, bool){
		a.unfinishedCourseRule,
		a.unusedSavesRule,
		a.disciplineImbalanceRule,
		a.weakDayRule,
		a.unsharedInsightsRule,
		a.singlePoseRule,
	} {
		if action, ok := rule(inputs); ok {
			actions = append(actions, action)
		}
	}

	if len(actions) < 2 && len(inputs.Sessions) >= a.config.FallbackMinSessions {
		actions = append(actions, a.fallbackActions(inputs)...)
	}

	sort.Slice(actions, func(i, j int) bool {
		return actions[i].Priority < actions[j].Priority
	})
	if len(actions) > a.config.MaxSuggestions {
		actions = actions[:a.config.MaxSuggestions]
	}
	return actions
}

func (a *Analyzer) unfinishedCourseRule(inputs SuggestionInputs) (models.SuggestedAction, bool) {
	for _, course := range inputs.Courses {
		if course.Unfinished() {
			return models.SuggestedAction{
				Kind:        "finish_course",
				Title:       fmt.Sprintf("Return to %s", course.Title),
				Description: fmt.Sprintf("You are %d of %d steps in. Pick up where you left off.", course.CompletedSteps, course.TotalSteps),
				Priority:    1,
			}, true
		}
	}
	return models.SuggestedAction{}, false
}

func (a *Analyzer) unusedSavesRule(inputs SuggestionInputs) (models.SuggestedAction, bool) {
	unused := 0
	var first *models.ContentTemplate
	for _, tpl := range inputs.SavedTemplates {
		if !inputs.UsedTemplateIDs[tpl.ID] {
			unused++
			if first == nil {
				first = tpl
			}
		}
	}
	if first == nil {
		return models.SuggestedAction{}, false
	}
	return models.SuggestedAction{
		Kind:        "use_saved",
		Title:       fmt.Sprintf("Try %s", first.Title),
		Description: fmt.Sprintf("You saved %d meditations you have not practiced yet.", unused),
		Priority:    2,
	}, true
}

// disciplineImbalanceRule fires when one discipline dominates and the user
// has tried only a handful of others.
func (a *Analyzer) disciplineImbalanceRule(inputs SuggestionInputs) (models.SuggestedAction, bool) {
	counts := map[string]int{}
	sample := 0
	for _, s := range inputs.Sessions {
		if s.Discipline == "" {
			continue
		}
		counts[s.Discipline]++
		sample++
	}
	if sample < a.config.MinPatternSessions || len(counts) >= a.config.ImbalanceMaxDisciplines {
		return models.SuggestedAction{}, false
	}

	name, count := dominantKey(counts)
	if percent(count, sample) <= a.config.ImbalancePercent {
		return models.SuggestedAction{}, false
	}
	return models.SuggestedAction{
		Kind:        "vary_discipline",
		Title:       "Explore beyond your anchor",
		Description: fmt.Sprintf("%s carries most of your practice. A different discipline can round it out.", name),
		Priority:    3,
	}, true
}

// weakDayRule looks for a day of the week well under the per-day average.
func (a *Analyzer) weakDayRule(inputs SuggestionInputs) (models.SuggestedAction, bool) {
	if len(inputs.Sessions) < 7 {
		return models.SuggestedAction{}, false
	}
	counts := map[time.Weekday]int{}
	for _, s := range inputs.Sessions {
		counts[s.StartedAt.Weekday()]++
	}

	perDayAvg := float64(len(inputs.Sessions)) / 7
	for day := time.Sunday; day <= time.Saturday; day++ {
		count := float64(counts[day])
		if count < a.config.WeakDayShare*perDayAvg && count < a.config.WeakDayTotalShare*float64(len(inputs.Sessions)) {
			return models.SuggestedAction{
				Kind:        "weak_day",
				Title:       fmt.Sprintf("Reclaim your %ss", day),
				Description: fmt.Sprintf("%ss rarely see you practice. Even a short sit keeps the thread.", day),
				Priority:    4,
			}, true
		}
	}
	return models.SuggestedAction{}, false
}

func (a *Analyzer) unsharedInsightsRule(inputs SuggestionInputs) (models.SuggestedAction, bool) {
	unshared := 0
	for _, insight := range inputs.Insights {
		if !insight.Shared {
			unshared++
		}
	}
	if unshared < a.config.UnsharedInsightsMin {
		return models.SuggestedAction{}, false
	}
	return models.SuggestedAction{
		Kind:        "share_insights",
		Title:       "Share what you have learned",
		Description: fmt.Sprintf("You have %d insights only you have seen.", unshared),
		Priority:    5,
	}, true
}

// singlePoseRule fires when every pose-bearing session uses the same pose.
func (a *Analyzer) singlePoseRule(inputs SuggestionInputs) (models.SuggestedAction, bool) {
	poses := map[string]bool{}
	sample := 0
	for _, s := range inputs.Sessions {
		if s.Pose == "" {
			continue
		}
		poses[s.Pose] = true
		sample++
	}
	if sample < a.config.MinPatternSessions || len(poses) != 1 {
		return models.SuggestedAction{}, false
	}
	return models.SuggestedAction{
		Kind:        "vary_pose",
		Title:       "Change your seat",
		Description: "Every session uses the same posture. A different pose can shift the practice.",
		Priority:    6,
	}, true
}

// fallbackActions are generic nudges for users whose history trips none of
// the gap rules.
func (a *Analyzer) fallbackActions(inputs SuggestionInputs) []models.SuggestedAction {
	actions := []models.SuggestedAction{
		{
			Kind:        "try_discipline",
			Title:       "Try something new",
			Description: "A discipline you have not practiced might surprise you.",
			Priority:    7,
		},
		{
			Kind:        "plan_ahead",
			Title:       "Plan tomorrow's sit",
			Description: "A planned session is far more likely to happen.",
			Priority:    8,
		},
	}
	if len(inputs.Insights) == 0 {
		actions = append(actions, models.SuggestedAction{
			Kind:        "capture_insight",
			Title:       "Capture an insight",
			Description: "A sentence after each session builds a record worth rereading.",
			Priority:    9,
		})
	}
	return actions
}
