package models

import "time"

// Plan splits a granted advance into installments.
type Plan struct {
	ID           string        `json:"id"`
	DecisionID   string        `json:"decision_id"`
	UserID       string        `json:"user_id"`
	TotalCents   int64         `json:"total_cents"`
	CreatedAt    time.Time     `json:"created_at"`
	Installments []Installment `json:"installments,omitempty"`
}
