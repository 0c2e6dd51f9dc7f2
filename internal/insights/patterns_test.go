package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// sessionOn builds a session on the given date at the given hour.
func sessionOn(year int, month time.Month, day, hour int, minutes float64, discipline, pose string) *models.Session {
	start := time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
	return &models.Session{
		StartedAt:       start,
		EndedAt:         start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
		Discipline:      discipline,
		Pose:            pose,
	}
}

func findCard(cards []models.PatternCard, kind string) *models.PatternCard {
	for i := range cards {
		if cards[i].Kind == kind {
			return &cards[i]
		}
	}
	return nil
}

func TestPracticeShape_TooFewSessions(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	sessions := []*models.Session{
		sessionOn(2025, 6, 2, 7, 20, "Vipassana", "seated"),
		sessionOn(2025, 6, 3, 7, 20, "Vipassana", "seated"),
	}
	assert.Empty(t, a.PracticeShape(sessions))
}

func TestPracticeShape_TimeOfDayCard(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// June 2-6 2025 are Mon-Fri; all five sessions start in the morning.
	sessions := []*models.Session{
		sessionOn(2025, 6, 2, 6, 20, "", ""),
		sessionOn(2025, 6, 3, 7, 20, "", ""),
		sessionOn(2025, 6, 4, 8, 20, "", ""),
		sessionOn(2025, 6, 5, 9, 20, "", ""),
		sessionOn(2025, 6, 6, 10, 20, "", ""),
	}

	card := findCard(a.PracticeShape(sessions), "time_of_day")
	require.NotNil(t, card)
	assert.Equal(t, 5, card.Strength, "100% dominance maps to strength 5")
	assert.InDelta(t, 100, card.Dominance, 1e-9)
	assert.Equal(t, 5, card.SampleSize)
	assert.Contains(t, card.Description, "morning")
}

func TestPracticeShape_DisciplineNeedsDominance(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Six disciplines spread evenly: no single one reaches 40%.
	sessions := []*models.Session{
		sessionOn(2025, 6, 2, 7, 20, "Vipassana", ""),
		sessionOn(2025, 6, 3, 7, 20, "Zazen", ""),
		sessionOn(2025, 6, 4, 7, 20, "Metta", ""),
		sessionOn(2025, 6, 5, 7, 20, "Body Scan", ""),
		sessionOn(2025, 6, 6, 7, 20, "Breathwork", ""),
		sessionOn(2025, 6, 7, 7, 20, "Yoga Nidra", ""),
	}
	assert.Nil(t, findCard(a.PracticeShape(sessions), "discipline"))
}

func TestPracticeShape_DisciplineIgnoresBlankSessions(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Five labeled sessions, four Vipassana: 80% dominance of the labeled
	// sample. Blank sessions do not dilute it.
	sessions := []*models.Session{
		sessionOn(2025, 6, 2, 7, 20, "Vipassana", ""),
		sessionOn(2025, 6, 3, 7, 20, "Vipassana", ""),
		sessionOn(2025, 6, 4, 7, 20, "Vipassana", ""),
		sessionOn(2025, 6, 5, 7, 20, "Vipassana", ""),
		sessionOn(2025, 6, 6, 7, 20, "Zazen", ""),
		sessionOn(2025, 6, 7, 7, 20, "", ""),
		sessionOn(2025, 6, 8, 7, 20, "", ""),
	}

	card := findCard(a.PracticeShape(sessions), "discipline")
	require.NotNil(t, card)
	assert.Equal(t, 5, card.Strength)
	assert.Equal(t, 5, card.SampleSize)
	assert.Contains(t, card.Title, "Vipassana")
}

func TestPracticeShape_WeekdayDominance(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Four weekday sessions against one Saturday: 80% weekday.
	sessions := []*models.Session{
		sessionOn(2025, 6, 2, 7, 20, "", ""), // Monday
		sessionOn(2025, 6, 3, 7, 20, "", ""),
		sessionOn(2025, 6, 4, 7, 20, "", ""),
		sessionOn(2025, 6, 5, 7, 20, "", ""),
		sessionOn(2025, 6, 7, 7, 20, "", ""), // Saturday
	}

	card := findCard(a.PracticeShape(sessions), "day_of_week")
	require.NotNil(t, card)
	assert.Contains(t, card.Title, "weekday")
}

func TestPracticeShape_WeekendDominance(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Two of five sessions on the weekend: 40% reaches the weekend bar while
	// weekdays stay under 75%.
	sessions := []*models.Session{
		sessionOn(2025, 6, 2, 7, 20, "", ""),
		sessionOn(2025, 6, 3, 7, 20, "", ""),
		sessionOn(2025, 6, 4, 7, 20, "", ""),
		sessionOn(2025, 6, 7, 7, 20, "", ""), // Saturday
		sessionOn(2025, 6, 8, 7, 20, "", ""), // Sunday
	}

	card := findCard(a.PracticeShape(sessions), "day_of_week")
	require.NotNil(t, card)
	assert.Contains(t, card.Title, "weekend")
}

func TestStrengthBands(t *testing.T) {
	assert.Equal(t, 5, strengthForDominance(80))
	assert.Equal(t, 4, strengthForDominance(65))
	assert.Equal(t, 3, strengthForDominance(50))
	assert.Equal(t, 2, strengthForDominance(35))
	assert.Equal(t, 1, strengthForDominance(34.9))
}
