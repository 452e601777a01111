package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashlane/advance-service/internal/models"
)

func TestBuildPlan_EvenSplit(t *testing.T) {
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	decision := &models.Decision{ID: "dec-1", UserID: "user-1", AmountGrantedCents: 12000}

	plan := buildPlan(decision, now)

	assert.Equal(t, "dec-1", plan.DecisionID)
	assert.Equal(t, int64(12000), plan.TotalCents)
	require.Len(t, plan.Installments, 4)

	var total int64
	for i, inst := range plan.Installments {
		assert.Equal(t, int64(3000), inst.AmountCents)
		assert.Equal(t, models.InstallmentPending, inst.Status)
		assert.Equal(t, plan.ID, inst.PlanID)
		assert.Equal(t, now.AddDate(0, 0, 7*(i+1)), inst.DueDate)
		total += inst.AmountCents
	}
	assert.Equal(t, plan.TotalCents, total)
}

func TestBuildPlan_RemainderOnFirstInstallment(t *testing.T) {
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	decision := &models.Decision{ID: "dec-2", UserID: "user-1", AmountGrantedCents: 10001}

	plan := buildPlan(decision, now)

	require.Len(t, plan.Installments, 4)
	assert.Equal(t, int64(2501), plan.Installments[0].AmountCents)
	assert.Equal(t, int64(2500), plan.Installments[1].AmountCents)
	assert.Equal(t, int64(2500), plan.Installments[2].AmountCents)
	assert.Equal(t, int64(2500), plan.Installments[3].AmountCents)

	var total int64
	for _, inst := range plan.Installments {
		total += inst.AmountCents
	}
	assert.Equal(t, int64(10001), total)
}
