package models

import "time"

// Advance tiers. Tier D is the fallback: everyone gets approved, the limit
// is sized by risk. Deny only happens during cooldown.
const (
	TierA    = "Tier A"
	TierB    = "Tier B"
	TierC    = "Tier C"
	TierD    = "Tier D"
	TierDeny = "Deny"
)

// Decision is the outcome of a single advance request.
type Decision struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"user_id"`
	AmountRequestedCents int64     `json:"amount_requested_cents"`
	Approved             bool      `json:"approved"`
	CreditLimitCents     int64     `json:"credit_limit_cents"`
	AmountGrantedCents   int64     `json:"amount_granted_cents"`
	Score                float64   `json:"score"`
	Tier                 string    `json:"tier"`
	Reasons              []string  `json:"reasons"`
	PlanID               string    `json:"plan_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}
