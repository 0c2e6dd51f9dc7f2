package models

import "time"

// NotificationKind classifies fire-and-forget notification records.
type NotificationKind string

const (
	// NotifyGrowthThreshold marks a voice score crossing a growth threshold.
	NotifyGrowthThreshold NotificationKind = "growth_threshold"
	// NotifyTierUpgrade marks a voice tier upgrade.
	NotifyTierUpgrade NotificationKind = "tier_upgrade"
)

// Notification is a pending notification record. This core only decides
// whether and what to notify; rendering and delivery live elsewhere.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
}
