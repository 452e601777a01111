package models

import "time"

// Installment statuses
const (
	InstallmentPending = "pending"
	InstallmentPaid    = "paid"
	InstallmentOverdue = "overdue"
)

// Installment is a single scheduled repayment of a plan.
type Installment struct {
	ID          string    `json:"id"`
	PlanID      string    `json:"plan_id"`
	DueDate     time.Time `json:"due_date"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
