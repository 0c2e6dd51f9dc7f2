package insights

import (
	"sort"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// Direction labels for the growth trajectory.
const (
	GrowthNew        = "new"
	GrowthDeepening  = "deepening"
	GrowthShortening = "shortening"
	GrowthStable     = "stable"
)

// GrowthTrajectory buckets sessions by calendar month, keeps the most recent
// months, and reports whether the average session is deepening or shortening
// between the oldest and newest kept month.
func (a *Analyzer) GrowthTrajectory(sessions []*models.Session) models.GrowthTrajectory {
	buckets := map[string]*models.MonthlyPractice{}
	for _, s := range sessions {
		month := s.StartedAt.Format("2006-01")
		b, ok := buckets[month]
		if !ok {
			b = &models.MonthlyPractice{Month: month}
			buckets[month] = b
		}
		b.Sessions++
		b.TotalMinutes += s.DurationMinutes
	}

	months := make([]models.MonthlyPractice, 0, len(buckets))
	for _, b := range buckets {
		b.AvgMinutes = b.TotalMinutes / float64(b.Sessions)
		months = append(months, *b)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month < months[j].Month
	})
	if len(months) > a.config.GrowthMonths {
		months = months[len(months)-a.config.GrowthMonths:]
	}

	trajectory := models.GrowthTrajectory{Months: months, Direction: GrowthNew}
	if len(months) < 2 {
		return trajectory
	}

	oldest := months[0].AvgMinutes
	newest := months[len(months)-1].AvgMinutes
	if oldest > 0 {
		trajectory.ChangePercent = (newest - oldest) / oldest * 100
	}
	switch {
	case trajectory.ChangePercent >= a.config.GrowthChangePercent:
		trajectory.Direction = GrowthDeepening
	case trajectory.ChangePercent <= -a.config.GrowthChangePercent:
		trajectory.Direction = GrowthShortening
	default:
		trajectory.Direction = GrowthStable
	}
	return trajectory
}
