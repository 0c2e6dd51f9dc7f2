// Package struggle detects behavioral patterns that suggest the user is
// having difficulty with their practice. Detection runs fresh over a rolling
// session window on every call; nothing is persisted.
package struggle

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// DetectorConfig contains the thresholds for the struggle heuristics.
type DetectorConfig struct {
	// WindowDays is the trailing window sessions are restricted to.
	WindowDays int
	// MinSessions is the minimum window size before any check runs. Below
	// it the detector stays silent to avoid false positives for new users.
	MinSessions int

	// EarlyExitRatio flags a planned session completed under this fraction.
	EarlyExitRatio float64
	// EarlyExitMinCount is how many flagged sessions raise the signal.
	EarlyExitMinCount int

	// DurationJumpRatio flags the latest session when it exceeds this
	// multiple of the window mean.
	DurationJumpRatio float64

	// ShallowMinSessions is the minimum window size for the shallow check.
	ShallowMinSessions int
	// ShallowMinutes is the bar under which a session counts as shallow.
	ShallowMinutes float64
	// ShallowShare is the fraction of shallow sessions that raises the signal.
	ShallowShare float64

	// TimingStddevHours flags start-hour scatter above this population
	// standard deviation.
	TimingStddevHours float64
}

// DefaultConfig returns the default detector thresholds.
func DefaultConfig() DetectorConfig {
	return DetectorConfig{
		WindowDays:         30,
		MinSessions:        3,
		EarlyExitRatio:     0.6,
		EarlyExitMinCount:  3,
		DurationJumpRatio:  1.5,
		ShallowMinSessions: 10,
		ShallowMinutes:     15,
		ShallowShare:       0.8,
		TimingStddevHours:  4,
	}
}

// Detector runs the struggle heuristics over a session snapshot.
type Detector struct {
	config DetectorConfig
}

// NewDetector creates a struggle detector.
func NewDetector(config DetectorConfig) *Detector {
	return &Detector{config: config}
}

// Detect returns every struggle signal present in the trailing window.
// plannedMinutes maps session ID to the planned duration for sessions that
// had one. The four checks are independent and non-exclusive; which signal
// to surface first is presentation policy and lives outside this package.
func (d *Detector) Detect(sessions []*models.Session, plannedMinutes map[string]float64, now time.Time) []models.StruggleSignal {
	window := d.windowSessions(sessions, now)
	if len(window) < d.config.MinSessions {
		return []models.StruggleSignal{}
	}

	signals := []models.StruggleSignal{}
	if sig, ok := d.checkEarlyExit(window, plannedMinutes); ok {
		signals = append(signals, sig)
	}
	if sig, ok := d.checkDurationJump(window); ok {
		signals = append(signals, sig)
	}
	if sig, ok := d.checkShallowPractice(window); ok {
		signals = append(signals, sig)
	}
	if sig, ok := d.checkInconsistentTiming(window); ok {
		signals = append(signals, sig)
	}
	return signals
}

// windowSessions returns the sessions inside the trailing window, sorted
// chronologically.
func (d *Detector) windowSessions(sessions []*models.Session, now time.Time) []*models.Session {
	cutoff := now.AddDate(0, 0, -d.config.WindowDays)

	window := make([]*models.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.StartedAt.After(cutoff) && !s.StartedAt.After(now) {
			window = append(window, s)
		}
	}
	sort.Slice(window, func(i, j int) bool {
		return window[i].StartedAt.Before(window[j].StartedAt)
	})
	return window
}

func (d *Detector) checkEarlyExit(window []*models.Session, plannedMinutes map[string]float64) (models.StruggleSignal, bool) {
	flagged := 0
	for _, s := range window {
		planned, ok := plannedMinutes[s.ID]
		if !ok || planned <= 0 {
			continue
		}
		if s.DurationMinutes < d.config.EarlyExitRatio*planned {
			flagged++
		}
	}
	if flagged < d.config.EarlyExitMinCount {
		return models.StruggleSignal{}, false
	}
	return models.StruggleSignal{
		Type:     models.StruggleEarlyExit,
		Detected: true,
		Context:  fmt.Sprintf("%d sessions ended well before their planned duration", flagged),
	}, true
}

func (d *Detector) checkDurationJump(window []*models.Session) (models.StruggleSignal, bool) {
	last := window[len(window)-1]
	mean := models.AverageSessionMinutes(window)
	if mean <= 0 || last.DurationMinutes <= d.config.DurationJumpRatio*mean {
		return models.StruggleSignal{}, false
	}
	return models.StruggleSignal{
		Type:     models.StruggleDurationJump,
		Detected: true,
		Context:  fmt.Sprintf("last session ran %.0f minutes against a %.0f minute average", last.DurationMinutes, mean),
	}, true
}

func (d *Detector) checkShallowPractice(window []*models.Session) (models.StruggleSignal, bool) {
	if len(window) < d.config.ShallowMinSessions {
		return models.StruggleSignal{}, false
	}
	shallow := 0
	for _, s := range window {
		if s.DurationMinutes < d.config.ShallowMinutes {
			shallow++
		}
	}
	share := float64(shallow) / float64(len(window))
	if share <= d.config.ShallowShare {
		return models.StruggleSignal{}, false
	}
	return models.StruggleSignal{
		Type:     models.StruggleShallowPractice,
		Detected: true,
		Context:  fmt.Sprintf("%.0f%% of recent sessions under %.0f minutes", share*100, d.config.ShallowMinutes),
	}, true
}

func (d *Detector) checkInconsistentTiming(window []*models.Session) (models.StruggleSignal, bool) {
	stddev := startHourStddev(window)
	if stddev <= d.config.TimingStddevHours {
		return models.StruggleSignal{}, false
	}
	return models.StruggleSignal{
		Type:     models.StruggleInconsistentTiming,
		Detected: true,
		Context:  fmt.Sprintf("session start times vary by %.1f hours", stddev),
	}, true
}

// startHourStddev computes the population standard deviation of session
// start hours.
func startHourStddev(sessions []*models.Session) float64 {
	if len(sessions) == 0 {
		return 0
	}
	mean := 0.0
	for _, s := range sessions {
		mean += float64(s.StartedAt.Hour())
	}
	mean /= float64(len(sessions))

	variance := 0.0
	for _, s := range sessions {
		diff := float64(s.StartedAt.Hour()) - mean
		variance += diff * diff
	}
	variance /= float64(len(sessions))
	return math.Sqrt(variance)
}
