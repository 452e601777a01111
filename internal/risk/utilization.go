package risk

import (
	"math"
	"time"

	"github.com/cashlane/advance-service/internal/models"
)

// UtilizationResult carries the raw metrics, per-metric bell-curve scores and
// the labeled composite for the most recent pay cycle.
type UtilizationResult struct {
	UtilizationPct     *float64 `json:"utilization_pct"`
	AvgDailySpendCents int64    `json:"avg_daily_spend_cents"`
	BurnDays           *float64 `json:"burn_days"`

	UtilizationScore float64 `json:"utilization_score"`
	BurnDaysScore    float64 `json:"burn_days_score"`
	DailySpendScore  float64 `json:"daily_spend_score"`

	CompositeScore float64 `json:"composite_score"`
	Label          string  `json:"label"`

	CycleStart time.Time `json:"cycle_start"`
	CycleEnd   time.Time `json:"cycle_end"`
}

// gaussianScore is exp(-((x-mu)^2)/(2*sigma^2)): exactly 1.0 at x = mu,
// approaching 0 as x leaves mu in either direction.
func gaussianScore(x, mu, sigma float64) float64 {
	d := x - mu
	return math.Exp(-(d * d) / (2 * sigma * sigma))
}

// asymmetricGaussianScore picks the sigma for the side of mu that x falls on,
// so deviation in one direction can be penalized harder than the other.
func asymmetricGaussianScore(x float64, g GaussianParams) float64 {
	sigma := g.SigmaLow
	if x > g.Mu {
		sigma = g.SigmaHigh
	}
	return gaussianScore(x, g.Mu, sigma)
}

// ScoreUtilization scores the user's spending behavior over the most recent
// pay cycle. Without a usable paycheck estimate the result is labeled unknown
// and contributes nothing to the decision.
func ScoreUtilization(txs []models.Transaction, paycheck PaycheckInfo, p Params) UtilizationResult {
	unknown := UtilizationResult{Label: LabelUnknown}
	if len(txs) == 0 || paycheck.Confidence < minPatternConfidence {
		return unknown
	}
	if paycheck.AvgPaycheckCents == nil || *paycheck.AvgPaycheckCents <= 0 || paycheck.PeriodDays <= 0 {
		return unknown
	}

	avgPaycheck := float64(*paycheck.AvgPaycheckCents)
	cycleEnd := txs[len(txs)-1].Date
	cycleDays := int(paycheck.PeriodDays)
	if cycleDays < 1 {
		cycleDays = 1
	}
	cycleStart := cycleEnd.AddDate(0, 0, -cycleDays)

	var totalDebits int64
	for _, t := range txs {
		if t.Type == models.TransactionDebit && !t.Date.Before(cycleStart) {
			totalDebits += t.AmountCents
		}
	}

	utilization := float64(totalDebits) / avgPaycheck
	avgDailySpend := float64(totalDebits) / float64(cycleDays)
	dailySpendRatio := avgDailySpend / avgPaycheck

	res := UtilizationResult{
		UtilizationPct:     &utilization,
		AvgDailySpendCents: int64(avgDailySpend),
		CycleStart:         cycleStart,
		CycleEnd:           cycleEnd,
	}

	res.UtilizationScore = asymmetricGaussianScore(utilization, p.Utilization)
	res.DailySpendScore = asymmetricGaussianScore(dailySpendRatio, p.DailySpend)

	// Burn days are undefined with zero spending; the user is not burning
	// the paycheck at all, which is the best possible signal.
	if avgDailySpend > 0 {
		burn := avgPaycheck / avgDailySpend
		res.BurnDays = &burn
		res.BurnDaysScore = asymmetricGaussianScore(burn, p.BurnDays)
	} else {
		res.BurnDaysScore = 1.0
	}

	// Weighted composite, renormalized over the metrics that contributed so
	// the weights still sum to 1 if one is ever skipped.
	weightSum := p.Utilization.Weight + p.BurnDays.Weight + p.DailySpend.Weight
	weighted := res.UtilizationScore*p.Utilization.Weight +
		res.BurnDaysScore*p.BurnDays.Weight +
		res.DailySpendScore*p.DailySpend.Weight
	if weightSum > 0 {
		res.CompositeScore = weighted / weightSum * 100.0
	}

	res.Label = scoreToLabel(res.CompositeScore, p.LabelThresholds)
	return res
}

func scoreToLabel(score float64, thresholds []LabelThreshold) string {
	for _, t := range thresholds {
		if score >= t.Min {
			return t.Label
		}
	}
	return LabelCriticalRisk
}
