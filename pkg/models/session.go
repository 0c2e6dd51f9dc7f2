// Package models contains domain models for stillpoint.
package models

import "time"

// TimeSlot identifies the part of the day a session falls into.
type TimeSlot string

const (
	// SlotMorning covers 05:00-11:59.
	SlotMorning TimeSlot = "morning"
	// SlotMidday covers 12:00-16:59.
	SlotMidday TimeSlot = "midday"
	// SlotEvening covers 17:00-20:59.
	SlotEvening TimeSlot = "evening"
	// SlotNight covers everything else.
	SlotNight TimeSlot = "night"
)

// TimeSlotForHour maps an hour of day (0-23) to its time slot.
func TimeSlotForHour(hour int) TimeSlot {
	switch {
	case hour >= 5 && hour < 12:
		return SlotMorning
	case hour >= 12 && hour < 17:
		return SlotMidday
	case hour >= 17 && hour < 21:
		return SlotEvening
	default:
		return SlotNight
	}
}

// DurationBucket classifies session length into coarse bands.
type DurationBucket string

const (
	// BucketShort is under 12 minutes.
	BucketShort DurationBucket = "short"
	// BucketMedium is 12 to under 24 minutes.
	BucketMedium DurationBucket = "medium"
	// BucketLong is 24 minutes or more.
	BucketLong DurationBucket = "long"
)

// DurationBucketForMinutes maps a session length to its duration bucket.
func DurationBucketForMinutes(minutes float64) DurationBucket {
	switch {
	case minutes < 12:
		return BucketShort
	case minutes < 24:
		return BucketMedium
	default:
		return BucketLong
	}
}

// Session represents one completed practice session.
// Discipline, pose and notes are optional; a session missing them is still
// valid and is simply excluded from the attribute-specific analyses.
type Session struct {
	ID              string    `json:"id"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	DurationMinutes float64   `json:"duration_minutes"`
	Discipline      string    `json:"discipline,omitempty"`
	Pose            string    `json:"pose,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// TimeSlot returns the time slot of the session start.
func (s *Session) TimeSlot() TimeSlot {
	return TimeSlotForHour(s.StartedAt.Hour())
}

// DurationBucket returns the duration bucket of the session.
func (s *Session) DurationBucket() DurationBucket {
	return DurationBucketForMinutes(s.DurationMinutes)
}

// PracticePlan is a planned session. PlannedDurationMinutes of zero means the
// user set no duration. SessionID links the completed session, if any.
type PracticePlan struct {
	ID                     string    `json:"id"`
	PlannedAt              time.Time `json:"planned_at"`
	PlannedDurationMinutes float64   `json:"planned_duration_minutes,omitempty"`
	SessionID              string    `json:"session_id,omitempty"`
	Discipline             string    `json:"discipline,omitempty"`
}

// Completed reports whether the plan has a linked completed session.
func (p *PracticePlan) Completed() bool {
	return p.SessionID != ""
}

// AverageSessionMinutes returns the mean session duration, or 0 for no sessions.
func AverageSessionMinutes(sessions []*Session) float64 {
	if len(sessions) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range sessions {
		total += s.DurationMinutes
	}
	return total / float64(len(sessions))
}

// TotalPracticeHours returns the lifetime practice hours across sessions.
func TotalPracticeHours(sessions []*Session) float64 {
	total := 0.0
	for _, s := range sessions {
		total += s.DurationMinutes
	}
	return total / 60.0
}
