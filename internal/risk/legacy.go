package risk

import "fmt"

// LegacyAdvisor is the pre-engine decision path: a flat list of warning
// strings with no scoring, no tiers and no cooldown. It sits behind the same
// explanation contract as the engine's reason trail but is not wired into
// the decision flow.
//
// Deprecated: use Engine.Decide; kept only until the remaining batch
// consumers migrate off the reason-list format.
type LegacyAdvisor struct {
	AvgDailyBalanceCents int64
	MonthlyIncomeCents   int64
	MonthlySpendCents    int64
	NSFCount             int
	UtilizationLabel     string
}

// Reasons reproduces the legacy warning list.
func (a *LegacyAdvisor) Reasons() []string {
	var reasons []string
	if a.AvgDailyBalanceCents < 0 {
		reasons = append(reasons, "avg_daily_balance negative")
	}
	if a.MonthlyIncomeCents < a.MonthlySpendCents {
		reasons = append(reasons, "monthly_income < monthly_spend")
	}
	if a.NSFCount > 0 {
		reasons = append(reasons, fmt.Sprintf("%d overdraft/nsf events", a.NSFCount))
	}
	switch a.UtilizationLabel {
	case LabelHighRisk:
		reasons = append(reasons, "high cycle utilization (user burns paycheck quickly)")
	case LabelMediumRisk:
		reasons = append(reasons, "medium cycle utilization")
	}
	return reasons
}
