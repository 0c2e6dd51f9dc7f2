package models

import (
	"strconv"
	"strings"
)

// ContentTemplate is one entry in the guided-content catalog.
// Community counters are denormalized aggregates maintained outside this core.
type ContentTemplate struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Discipline         string          `json:"discipline"`
	IntentTags         JSONStringArray `json:"intent_tags,omitempty"`
	BestTime           string          `json:"best_time,omitempty"`
	DurationGuidance   string          `json:"duration_guidance,omitempty"`
	MinExperienceHours float64         `json:"min_experience_hours,omitempty"`
	Karma              int             `json:"karma"`
	Saves              int             `json:"saves"`
	Completions        int             `json:"completions"`
}

// ParseDurationBucket classifies free-form duration guidance text
// ("5-10 mins", "30+ mins") into a duration bucket. A "+" marks an
// open-ended range and always means long. Unparseable text falls back to
// medium, the safe default.
func ParseDurationBucket(guidance string) DurationBucket {
	if strings.Contains(guidance, "+") {
		return BucketLong
	}

	maxMinutes := 0
	current := strings.Builder{}
	flush := func() {
		if current.Len() == 0 {
			return
		}
		if n, err := strconv.Atoi(current.String()); err == nil && n > maxMinutes {
			maxMinutes = n
		}
		current.Reset()
	}
	for _, r := range guidance {
		if r >= '0' && r <= '9' {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	switch {
	case maxMinutes >= 25:
		return BucketLong
	case maxMinutes >= 12:
		return BucketMedium
	case maxMinutes > 0:
		return BucketShort
	default:
		return BucketMedium
	}
}

// ParseBestTimeSlot extracts a time slot keyword from a template's best-time
// label. The second return is false when the label names no concrete slot
// (empty, "anytime", or unrecognized).
func ParseBestTimeSlot(bestTime string) (TimeSlot, bool) {
	lower := strings.ToLower(bestTime)
	for _, slot := range []TimeSlot{SlotMorning, SlotMidday, SlotEvening, SlotNight} {
		if strings.Contains(lower, string(slot)) {
			return slot, true
		}
	}
	return "", false
}

// MatchesAnytime reports whether the template declares itself suitable for
// any time of day.
func (t *ContentTemplate) MatchesAnytime() bool {
	return strings.Contains(strings.ToLower(t.BestTime), "anytime")
}
