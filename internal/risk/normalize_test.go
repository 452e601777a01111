package risk

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashlane/advance-service/internal/models"
)

func cents(v int64) *int64 {
	return &v
}

func TestNormalize_DateFormats(t *testing.T) {
	raw := []models.RawTransaction{
		{TransactionID: "1", Date: "2025-03-10", Type: "debit", AmountCents: cents(500)},
		{TransactionID: "2", Date: "2025-03-11T15:04:05Z", Type: "credit", AmountCents: cents(1000)},
		{TransactionID: "3", Date: "2025-03-12 08:30:00", Type: "debit", AmountCents: cents(200)},
	}

	txs, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, txs, 3)

	// Timestamps collapse to UTC calendar days.
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), txs[0].Date)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), txs[1].Date)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), txs[2].Date)
}

func TestNormalize_SortsByDateStable(t *testing.T) {
	raw := []models.RawTransaction{
		{TransactionID: "late", Date: "2025-03-12", Type: "debit", AmountCents: cents(1)},
		{TransactionID: "a", Date: "2025-03-10", Type: "debit", AmountCents: cents(2)},
		{TransactionID: "b", Date: "2025-03-10T23:00:00Z", Type: "credit", AmountCents: cents(3)},
		{TransactionID: "c", Date: "2025-03-10", Type: "debit", AmountCents: cents(4)},
	}

	txs, err := Normalize(raw)
	require.NoError(t, err)

	// Same-day entries keep their input order.
	ids := []string{txs[0].TransactionID, txs[1].TransactionID, txs[2].TransactionID, txs[3].TransactionID}
	assert.Equal(t, []string{"a", "b", "c", "late"}, ids)
}

func TestNormalize_UnparsableDate(t *testing.T) {
	raw := []models.RawTransaction{
		{TransactionID: "x", Date: "10/03/2025", Type: "debit", AmountCents: cents(500)},
	}

	_, err := Normalize(raw)
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "date", vErr.Field)
	assert.Equal(t, "x", vErr.TransactionID)
}

func TestNormalize_MissingAmount(t *testing.T) {
	raw := []models.RawTransaction{
		{TransactionID: "x", Date: "2025-03-10", Type: "debit"},
	}

	_, err := Normalize(raw)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "amount_cents", vErr.Field)
}

func TestNormalize_NegativeAmount(t *testing.T) {
	raw := []models.RawTransaction{
		{TransactionID: "x", Date: "2025-03-10", Type: "debit", AmountCents: cents(-100)},
	}

	_, err := Normalize(raw)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
}

func TestNormalize_UnknownTypeDefaultsToDebit(t *testing.T) {
	raw := []models.RawTransaction{
		{TransactionID: "x", Date: "2025-03-10", Type: "withdrawal", AmountCents: cents(100)},
	}

	txs, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionDebit, txs[0].Type)
}
