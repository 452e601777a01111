package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegacyAdvisor_Reasons(t *testing.T) {
	advisor := &LegacyAdvisor{
		AvgDailyBalanceCents: -500,
		MonthlyIncomeCents:   100000,
		MonthlySpendCents:    150000,
		NSFCount:             3,
		UtilizationLabel:     LabelHighRisk,
	}

	assert.Equal(t, []string{
		"avg_daily_balance negative",
		"monthly_income < monthly_spend",
		"3 overdraft/nsf events",
		"high cycle utilization (user burns paycheck quickly)",
	}, advisor.Reasons())
}

func TestLegacyAdvisor_CleanProfileHasNoWarnings(t *testing.T) {
	advisor := &LegacyAdvisor{
		AvgDailyBalanceCents: 50000,
		MonthlyIncomeCents:   300000,
		MonthlySpendCents:    200000,
		UtilizationLabel:     LabelHealthy,
	}

	assert.Empty(t, advisor.Reasons())
}
