package risk

import (
	"fmt"
	"strings"
	"time"

	"github.com/cashlane/advance-service/internal/models"
)

// CooldownResult reports whether the user is still inside the waiting period
// after their last advance.
type CooldownResult struct {
	Active         bool       `json:"active"`
	RemainingHours float64    `json:"remaining_hours"`
	LastAdvanceAt  *time.Time `json:"last_advance_at,omitempty"`
	Explanation    string     `json:"explanation"`
}

// CheckCooldown finds the most recent advance and compares it against the
// cooldown window. Events are the preferred source; when none mention an
// advance, credit transactions carrying advance markers are scanned instead.
// The engine only reads history here; recording the new advance is the
// caller's job.
func CheckCooldown(events []models.UserEvent, txs []models.Transaction, cooldownHours int, now time.Time) CooldownResult {
	last := lastAdvanceFromEvents(events)
	if last == nil {
		last = lastAdvanceFromTransactions(txs)
	}

	if last == nil {
		return CooldownResult{
			Active:      false,
			Explanation: "no previous advance found, eligible for a new advance",
		}
	}

	window := time.Duration(cooldownHours) * time.Hour
	elapsed := now.Sub(*last)
	if elapsed < window {
		remaining := (window - elapsed).Hours()
		return CooldownResult{
			Active:         true,
			RemainingHours: remaining,
			LastAdvanceAt:  last,
			Explanation:    fmt.Sprintf("cooldown active: %.1f hours remaining (last advance %s)", remaining, last.Format("2006-01-02 15:04")),
		}
	}
	return CooldownResult{
		Active:        false,
		LastAdvanceAt: last,
		Explanation:   fmt.Sprintf("cooldown expired, eligible for a new advance (last advance %s)", last.Format("2006-01-02 15:04")),
	}
}

func lastAdvanceFromEvents(events []models.UserEvent) *time.Time {
	var last *time.Time
	for _, e := range events {
		switch strings.ToLower(e.Type) {
		case models.EventAdvanceTaken, models.EventCashAdvance, models.EventDisbursement:
			if e.Timestamp.IsZero() {
				continue
			}
			if last == nil || e.Timestamp.After(*last) {
				ts := e.Timestamp
				last = &ts
			}
		}
	}
	return last
}

func lastAdvanceFromTransactions(txs []models.Transaction) *time.Time {
	var last *time.Time
	for _, t := range txs {
		if t.Type != models.TransactionCredit || !hasAdvanceMarker(t) {
			continue
		}
		if last == nil || t.Date.After(*last) {
			d := t.Date
			last = &d
		}
	}
	return last
}

func hasAdvanceMarker(t models.Transaction) bool {
	desc := strings.ToLower(t.Description)
	return strings.Contains(desc, "advance") ||
		strings.Contains(desc, "disbursement") ||
		strings.EqualFold(t.Category, models.EventCashAdvance)
}
