package models

import "time"

// Derived event types published after each recalculation.
const (
	EventChangeUpserted  = "change_upserted"
	EventStreakUpserted  = "streak_upserted"
	EventStreakRetracted = "streak_retracted"
)

// DerivedEvent notifies downstream consumers that a derived document for
// a (geo, product) pair was replaced or retracted.
type DerivedEvent struct {
	Type    string       `json:"type"`
	Geo     string       `json:"geo"`
	Product string       `json:"product"`
	Change  *PriceChange `json:"change,omitempty"`
	Streak  *PriceStreak `json:"streak,omitempty"`
	At      time.Time    `json:"at"`
}
