package models

// StruggleType identifies one behavioral struggle heuristic.
type StruggleType string

const (
	// StruggleEarlyExit fires when planned sessions keep ending well short.
	StruggleEarlyExit StruggleType = "early_exit"
	// StruggleDurationJump fires when the latest session far exceeds the
	// recent mean.
	StruggleDurationJump StruggleType = "duration_jump"
	// StruggleShallowPractice fires when almost all recent sessions are brief.
	StruggleShallowPractice StruggleType = "shallow_practice"
	// StruggleInconsistentTiming fires when session start times scatter
	// widely across the day.
	StruggleInconsistentTiming StruggleType = "inconsistent_timing"
)

// StruggleSignal is one detected struggle pattern. Signals are recomputed
// fresh on every call and never persisted.
type StruggleSignal struct {
	Type     StruggleType `json:"type"`
	Detected bool         `json:"detected"`
	Context  string       `json:"context,omitempty"`
}
