package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeSlotForHour(t *testing.T) {
	tests := []struct {
		hour int
		want TimeSlot
	}{
		{5, SlotMorning},
		{11, SlotMorning},
		{12, SlotMidday},
		{16, SlotMidday},
		{17, SlotEvening},
		{20, SlotEvening},
		{21, SlotNight},
		{23, SlotNight},
		{0, SlotNight},
		{4, SlotNight},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TimeSlotForHour(tt.hour), "hour %d", tt.hour)
	}
}

func TestDurationBucketForMinutes(t *testing.T) {
	assert.Equal(t, BucketShort, DurationBucketForMinutes(0))
	assert.Equal(t, BucketShort, DurationBucketForMinutes(11.9))
	assert.Equal(t, BucketMedium, DurationBucketForMinutes(12))
	assert.Equal(t, BucketMedium, DurationBucketForMinutes(23.9))
	assert.Equal(t, BucketLong, DurationBucketForMinutes(24))
	assert.Equal(t, BucketLong, DurationBucketForMinutes(90))
}

func TestSessionBuckets(t *testing.T) {
	s := &Session{
		StartedAt:       time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC),
		DurationMinutes: 25,
	}

	assert.Equal(t, SlotEvening, s.TimeSlot())
	assert.Equal(t, BucketLong, s.DurationBucket())
}

func TestAverageSessionMinutes(t *testing.T) {
	assert.Zero(t, AverageSessionMinutes(nil))

	sessions := []*Session{
		{DurationMinutes: 10},
		{DurationMinutes: 20},
		{DurationMinutes: 30},
	}
	assert.InDelta(t, 20.0, AverageSessionMinutes(sessions), 0.001)
	assert.InDelta(t, 1.0, TotalPracticeHours(sessions), 0.001)
}
