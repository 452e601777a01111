package models

import "time"

// Transaction types
const (
	TransactionDebit  = "debit"
	TransactionCredit = "credit"
)

// RawTransaction is a ledger record as it arrives from a bank integration or
// statement import. Dates may be calendar days ("2006-01-02") or full RFC3339
// timestamps; amount and balance may be absent.
type RawTransaction struct {
	TransactionID string `json:"transaction_id"`
	Date          string `json:"date"`
	Type          string `json:"type"`
	AmountCents   *int64 `json:"amount_cents"`
	BalanceCents  *int64 `json:"balance_cents,omitempty"`
	NSF           bool   `json:"nsf,omitempty"`
	Description   string `json:"description,omitempty"`
	Category      string `json:"category,omitempty"`
	Merchant      string `json:"merchant,omitempty"`
}

// Transaction is the canonical form produced by normalization: date reduced
// to a UTC calendar day, amount guaranteed present. Immutable once normalized.
type Transaction struct {
	TransactionID string
	Date          time.Time
	Type          string
	AmountCents   int64
	BalanceCents  *int64
	NSF           bool
	Description   string
	Category      string
	Merchant      string
}
