package models

import "time"

// UpdateFrequency is the expected update cadence for a definition.
type UpdateFrequency string

const (
	FrequencyDaily   UpdateFrequency = "DAILY"
	FrequencyWeekly  UpdateFrequency = "WEEKLY"
	FrequencyMonthly UpdateFrequency = "MONTHLY"
)

// Next returns the expected date of the mark following t at this cadence.
func (f UpdateFrequency) Next(t time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// FreshnessStatus distinguishes fresh, stale, and not-computable states.
// Unknown is reported when no marks exist; it is never coerced to Fresh or
// Stale.
type FreshnessStatus string

const (
	FreshnessFresh   FreshnessStatus = "FRESH"
	FreshnessStale   FreshnessStatus = "STALE"
	FreshnessUnknown FreshnessStatus = "UNKNOWN"
)

// StreakEntry records whether one actual update mark landed in its expected
// schedule slot.
type StreakEntry struct {
	MarkDate time.Time `json:"mark_date"`
	OnTime   bool      `json:"on_time"`
}

// FreshnessState is the derived cadence state for one definition. Streak is
// ordered newest-first.
type FreshnessState struct {
	DefinitionID     string          `json:"definition_id"`
	UpdateFrequency  UpdateFrequency `json:"update_frequency"`
	LastReceivedDate *time.Time      `json:"last_received_date"`
	NextExpectedDate *time.Time      `json:"next_expected_date"`
	Status           FreshnessStatus `json:"status"`
	IsCurrentlyFresh bool            `json:"is_currently_fresh"`
	Streak           []StreakEntry   `json:"streak"`
}

// VintageTag reports whether an instance belongs to the current upload cohort
// for its market/location. This is the relative cohort notion, distinct from
// the per-definition cadence state above.
type VintageTag struct {
	InstanceID     string    `json:"instance_id"`
	DefinitionID   string    `json:"definition_id"`
	CreatedAt      time.Time `json:"created_at"`
	IsCurrent      bool      `json:"is_current"`
	CurrentVintage time.Time `json:"current_vintage"`
}
