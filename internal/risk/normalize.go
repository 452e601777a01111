package risk

import (
	"sort"
	"time"

	"github.com/cashlane/advance-service/internal/models"
)

// date layouts accepted at the boundary, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Normalize converts loosely-typed ledger records into canonical
// transactions: dates reduced to UTC calendar days, amounts required,
// ordering ascending by day with input order preserved within a day.
// All "could be a string or a timestamp" ambiguity ends here.
func Normalize(raw []models.RawTransaction) ([]models.Transaction, error) {
	txs := make([]models.Transaction, 0, len(raw))
	for _, r := range raw {
		day, err := parseDay(r.Date)
		if err != nil {
			return nil, &ValidationError{TransactionID: r.TransactionID, Field: "date", Reason: "unparsable date " + r.Date}
		}
		if r.AmountCents == nil {
			return nil, &ValidationError{TransactionID: r.TransactionID, Field: "amount_cents", Reason: "missing amount"}
		}
		if *r.AmountCents < 0 {
			return nil, &ValidationError{TransactionID: r.TransactionID, Field: "amount_cents", Reason: "amount must not be negative"}
		}
		typ := r.Type
		if typ != models.TransactionCredit {
			typ = models.TransactionDebit
		}
		txs = append(txs, models.Transaction{
			TransactionID: r.TransactionID,
			Date:          day,
			Type:          typ,
			AmountCents:   *r.AmountCents,
			BalanceCents:  r.BalanceCents,
			NSF:           r.NSF,
			Description:   r.Description,
			Category:      r.Category,
			Merchant:      r.Merchant,
		})
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })
	return txs, nil
}

func parseDay(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
