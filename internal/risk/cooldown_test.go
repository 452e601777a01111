package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashlane/advance-service/internal/models"
)

func TestCheckCooldown_ActiveFromEvent(t *testing.T) {
	now := time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)
	events := []models.UserEvent{
		{Type: "advance_taken", Timestamp: now.Add(-10 * time.Hour)},
	}

	res := CheckCooldown(events, nil, 72, now)

	assert.True(t, res.Active)
	assert.InDelta(t, 62.0, res.RemainingHours, 0.01)
	require.NotNil(t, res.LastAdvanceAt)
}

func TestCheckCooldown_ExpiredEvent(t *testing.T) {
	now := time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)
	events := []models.UserEvent{
		{Type: "advance_taken", Timestamp: now.Add(-80 * time.Hour)},
	}

	res := CheckCooldown(events, nil, 72, now)

	assert.False(t, res.Active)
	require.NotNil(t, res.LastAdvanceAt)
}

func TestCheckCooldown_MostRecentEventWins(t *testing.T) {
	now := time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)
	events := []models.UserEvent{
		{Type: "Advance_Taken", Timestamp: now.Add(-200 * time.Hour)}, // type match is case-insensitive
		{Type: "disbursement", Timestamp: now.Add(-30 * time.Hour)},
		{Type: "login", Timestamp: now.Add(-1 * time.Hour)}, // unrelated
	}

	res := CheckCooldown(events, nil, 72, now)

	assert.True(t, res.Active)
	assert.InDelta(t, 42.0, res.RemainingHours, 0.01)
}

func TestCheckCooldown_TransactionFallback(t *testing.T) {
	txDate := time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)
	now := txDate.Add(40 * time.Hour)
	txs := []models.Transaction{
		{Date: txDate, Type: models.TransactionCredit, AmountCents: 5000, Description: "Cash Advance Disbursement"},
	}

	res := CheckCooldown(nil, txs, 72, now)

	assert.True(t, res.Active)
	assert.InDelta(t, 32.0, res.RemainingHours, 0.01)
}

func TestCheckCooldown_CategoryMarker(t *testing.T) {
	txDate := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	now := txDate.Add(200 * time.Hour)
	txs := []models.Transaction{
		{Date: txDate, Type: models.TransactionCredit, AmountCents: 5000, Description: "Deposit", Category: "cash_advance"},
	}

	res := CheckCooldown(nil, txs, 72, now)

	assert.False(t, res.Active)
	require.NotNil(t, res.LastAdvanceAt)
	assert.Equal(t, txDate, *res.LastAdvanceAt)
}

func TestCheckCooldown_DebitsNeverMatch(t *testing.T) {
	txDate := time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		{Date: txDate, Type: models.TransactionDebit, AmountCents: 5000, Description: "advance repayment"},
	}

	res := CheckCooldown(nil, txs, 72, txDate.Add(2*time.Hour))

	assert.False(t, res.Active)
	assert.Nil(t, res.LastAdvanceAt)
}

func TestCheckCooldown_NoHistory(t *testing.T) {
	res := CheckCooldown(nil, nil, 72, time.Now().UTC())

	assert.False(t, res.Active)
	assert.Nil(t, res.LastAdvanceAt)
	assert.Contains(t, res.Explanation, "no previous advance")
}
