package insights

import (
	"fmt"
	"time"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// PracticeShape surfaces up to four pattern cards describing how the user
// practices: time of day, discipline, pose and day of week. Each card needs
// enough samples and a dominance share before it appears.
func (a *Analyzer) PracticeShape(sessions []*models.Session) []models.PatternCard {
	cards := []models.PatternCard{}
	if card, ok := a.timeOfDayCard(sessions); ok {
		cards = append(cards, card)
	}
	if card, ok := a.disciplineCard(sessions); ok {
		cards = append(cards, card)
	}
	if card, ok := a.poseCard(sessions); ok {
		cards = append(cards, card)
	}
	if card, ok := a.dayOfWeekCard(sessions); ok {
		cards = append(cards, card)
	}
	return cards
}

func (a *Analyzer) timeOfDayCard(sessions []*models.Session) (models.PatternCard, bool) {
	if len(sessions) < a.config.MinPatternSessions {
		return models.PatternCard{}, false
	}

	counts := map[models.TimeSlot]int{}
	for _, s := range sessions {
		counts[s.TimeSlot()]++
	}
	slot, count := dominantSlot(counts)

	dominance := percent(count, len(sessions))
	if dominance < a.config.TimeSlotMinPercent {
		return models.PatternCard{}, false
	}
	return models.PatternCard{
		Kind:        "time_of_day",
		Title:       fmt.Sprintf("A %s practitioner", slot),
		Description: fmt.Sprintf("%.0f%% of your sessions start in the %s", dominance, slot),
		Strength:    strengthForDominance(dominance),
		Dominance:   dominance,
		SampleSize:  len(sessions),
	}, true
}

func (a *Analyzer) disciplineCard(sessions []*models.Session) (models.PatternCard, bool) {
	counts := map[string]int{}
	sample := 0
	for _, s := range sessions {
		if s.Discipline == "" {
			continue
		}
		counts[s.Discipline]++
		sample++
	}
	if sample < a.config.MinPatternSessions {
		return models.PatternCard{}, false
	}

	name, count := dominantKey(counts)
	dominance := percent(count, sample)
	if dominance < a.config.DisciplineMinPercent {
		return models.PatternCard{}, false
	}
	return models.PatternCard{
		Kind:        "discipline",
		Title:       fmt.Sprintf("Rooted in %s", name),
		Description: fmt.Sprintf("%.0f%% of your practice is %s", dominance, name),
		Strength:    strengthForDominance(dominance),
		Dominance:   dominance,
		SampleSize:  sample,
	}, true
}

func (a *Analyzer) poseCard(sessions []*models.Session) (models.PatternCard, bool) {
	counts := map[string]int{}
	sample := 0
	for _, s := range sessions {
		if s.Pose == "" {
			continue
		}
		counts[s.Pose]++
		sample++
	}
	if sample < a.config.MinPatternSessions {
		return models.PatternCard{}, false
	}

	name, count := dominantKey(counts)
	dominance := percent(count, sample)
	if dominance < a.config.PoseMinPercent {
		return models.PatternCard{}, false
	}
	return models.PatternCard{
		Kind:        "pose",
		Title:       fmt.Sprintf("At home in %s", name),
		Description: fmt.Sprintf("You sit in %s for %.0f%% of your sessions", name, dominance),
		Strength:    strengthForDominance(dominance),
		Dominance:   dominance,
		SampleSize:  sample,
	}, true
}

// dayOfWeekCard recognizes weekday dominance first, then weekend dominance,
// and falls back to a single dominant day with a strength boost.
func (a *Analyzer) dayOfWeekCard(sessions []*models.Session) (models.PatternCard, bool) {
	if len(sessions) < a.config.MinPatternSessions {
		return models.PatternCard{}, false
	}

	dayCounts := map[time.Weekday]int{}
	weekday := 0
	for _, s := range sessions {
		day := s.StartedAt.Weekday()
		dayCounts[day]++
		if day != time.Saturday && day != time.Sunday {
			weekday++
		}
	}

	weekdayShare := percent(weekday, len(sessions))
	if weekdayShare >= a.config.WeekdayPercent {
		return models.PatternCard{
			Kind:        "day_of_week",
			Title:       "A weekday rhythm",
			Description: fmt.Sprintf("%.0f%% of your sessions fall Monday through Friday", weekdayShare),
			Strength:    strengthForDominance(weekdayShare),
			Dominance:   weekdayShare,
			SampleSize:  len(sessions),
		}, true
	}

	weekendShare := 100 - weekdayShare
	if weekendShare >= a.config.WeekendPercent {
		return models.PatternCard{
			Kind:        "day_of_week",
			Title:       "A weekend practice",
			Description: fmt.Sprintf("%.0f%% of your sessions fall on the weekend", weekendShare),
			Strength:    strengthForDominance(weekendShare),
			Dominance:   weekendShare,
			SampleSize:  len(sessions),
		}, true
	}

	var topDay time.Weekday
	topCount := 0
	for day, count := range dayCounts {
		if count > topCount || (count == topCount && day < topDay) {
			topDay = day
			topCount = count
		}
	}
	dayShare := percent(topCount, len(sessions))
	if dayShare < a.config.SingleDayPercent {
		return models.PatternCard{}, false
	}
	strength := strengthForDominance(dayShare) + 1
	if strength > 5 {
		strength = 5
	}
	return models.PatternCard{
		Kind:        "day_of_week",
		Title:       fmt.Sprintf("%s is your day", topDay),
		Description: fmt.Sprintf("%.0f%% of your sessions happen on %ss", dayShare, topDay),
		Strength:    strength,
		Dominance:   dayShare,
		SampleSize:  len(sessions),
	}, true
}

func dominantSlot(counts map[models.TimeSlot]int) (models.TimeSlot, int) {
	var top models.TimeSlot
	topCount := -1
	for _, slot := range []models.TimeSlot{models.SlotMorning, models.SlotMidday, models.SlotEvening, models.SlotNight} {
		if counts[slot] > topCount {
			top = slot
			topCount = counts[slot]
		}
	}
	return top, topCount
}

// dominantKey returns the highest-count key, ties broken alphabetically for
// deterministic output.
func dominantKey(counts map[string]int) (string, int) {
	top := ""
	topCount := 0
	for key, count := range counts {
		if count > topCount || (count == topCount && key < top) {
			top = key
			topCount = count
		}
	}
	return top, topCount
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
