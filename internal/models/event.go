package models

import "time"

// Event types relevant to cooldown checks.
const (
	EventAdvanceTaken = "advance_taken"
	EventCashAdvance  = "cash_advance"
	EventDisbursement = "disbursement"
)

// UserEvent is a product event from the user's history. Only advance-style
// events matter to the engine; everything else is carried through untouched.
type UserEvent struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}
