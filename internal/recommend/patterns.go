// Package recommend ranks the guided-content catalog against the user's
// recent practice. Ranking works off frequency counts recomputed fresh from
// raw history on every call; it deliberately does not consult the learned
// affinity profile - the two personalization signals run in parallel.
package recommend

import (
	"sort"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// PracticePatterns summarizes the behavioral history one ranking pass
// scores against.
type PracticePatterns struct {
	// DisciplineFrequency counts sessions per discipline.
	DisciplineFrequency map[string]int `json:"discipline_frequency"`
	// AvgSessionMinutes is the mean session duration.
	AvgSessionMinutes float64 `json:"avg_session_minutes"`
	// DominantTimeSlot is the slot holding at least half of all sessions,
	// or "mixed" when no slot reaches a strict majority share.
	DominantTimeSlot string `json:"dominant_time_slot"`
	// TotalHours is the lifetime practice hours, used for experience gating.
	TotalHours float64 `json:"total_hours"`
	// SavedTagFrequency counts intent tags across currently saved templates.
	SavedTagFrequency map[string]int `json:"saved_tag_frequency"`
	// TopSavedTags lists the saved tags by descending frequency.
	TopSavedTags []string `json:"top_saved_tags"`
}

// DominantSlotMixed is the dominant-slot value when no slot reaches a
// majority.
const DominantSlotMixed = "mixed"

// ExtractPatterns derives the practice patterns from session history and the
// currently saved templates. Empty history yields zero-valued patterns.
func ExtractPatterns(sessions []*models.Session, saved []*models.ContentTemplate) PracticePatterns {
	patterns := PracticePatterns{
		DisciplineFrequency: map[string]int{},
		SavedTagFrequency:   map[string]int{},
		AvgSessionMinutes:   models.AverageSessionMinutes(sessions),
		TotalHours:          models.TotalPracticeHours(sessions),
		DominantTimeSlot:    DominantSlotMixed,
	}

	slotCounts := map[models.TimeSlot]int{}
	for _, s := range sessions {
		if s.Discipline != "" {
			patterns.DisciplineFrequency[s.Discipline]++
		}
		slotCounts[s.TimeSlot()]++
	}

	// Dominant slot needs at least half of all sessions. Slots are checked
	// in a fixed order so an exact 50/50 split resolves deterministically.
	if len(sessions) > 0 {
		for _, slot := range []models.TimeSlot{models.SlotMorning, models.SlotMidday, models.SlotEvening, models.SlotNight} {
			if float64(slotCounts[slot]) >= 0.5*float64(len(sessions)) {
				patterns.DominantTimeSlot = string(slot)
				break
			}
		}
	}

	for _, tpl := range saved {
		for _, tag := range tpl.IntentTags {
			patterns.SavedTagFrequency[tag]++
		}
	}
	patterns.TopSavedTags = sortedByFrequency(patterns.SavedTagFrequency)

	return patterns
}

// sortedByFrequency returns map keys by descending count, ties alphabetical
// for deterministic output.
func sortedByFrequency(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
