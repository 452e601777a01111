package risk

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cashlane/advance-service/internal/models"
)

// RiskScore is the full outcome of one decision call: raw cash-flow metrics,
// component scores, the clamped final score, the tier decision and the
// ordered explanation trail. Constructed fresh per call, never mutated after
// return.
type RiskScore struct {
	AvgDailyBalanceCents int64 `json:"avg_daily_balance_cents"`
	MonthlyIncomeCents   int64 `json:"monthly_income_cents"`
	MonthlySpendCents    int64 `json:"monthly_spend_cents"`
	NSFCount             int   `json:"nsf_count"`

	BalanceScore     float64 `json:"balance_score"`
	IncomeSpendScore float64 `json:"income_spend_score"`
	NSFScore         float64 `json:"nsf_score"`

	UtilizationPenalty float64 `json:"utilization_penalty"`
	PaybackPenalty     float64 `json:"payback_penalty"`
	FinalScore         float64 `json:"final_score"`

	Tier               string `json:"tier"`
	LimitCents         int64  `json:"limit_cents"`
	Approved           bool   `json:"approved"`
	AmountGrantedCents int64  `json:"amount_granted_cents"`

	Paycheck    PaycheckInfo      `json:"paycheck"`
	Utilization UtilizationResult `json:"utilization"`
	Payback     PaybackResult     `json:"payback"`
	Cooldown    CooldownResult    `json:"cooldown"`

	Reasons []string `json:"reasons"`
}

// Engine is the risk decision engine. It holds an immutable parameter set
// and is safe for concurrent use; every decision is a pure function of its
// inputs.
type Engine struct {
	params Params
	log    *logrus.Logger
}

// NewEngine validates the parameter set and builds an engine. Configuration
// problems surface here, never during a decision call.
func NewEngine(params Params, log *logrus.Logger) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Engine{params: params, log: log}, nil
}

// Params returns the engine's parameter set.
func (e *Engine) Params() Params {
	return e.params
}

// Decide runs the whole pipeline for one advance request: normalize the
// ledger, aggregate cash flow, estimate the paycheck, score utilization and
// payback capacity, check the cooldown, then combine everything into a tier
// decision with an explanation trail. Malformed ledger data returns a
// ValidationError; every other degraded condition falls back to a
// neutral/unknown signal so a structurally valid request always gets a
// decision.
func (e *Engine) Decide(raw []models.RawTransaction, amountRequestedCents int64, events []models.UserEvent, now time.Time) (*RiskScore, error) {
	txs, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	cf := AggregateCashFlow(txs)
	balanceScore := BalanceScore(cf.AvgDailyBalanceCents, e.params.BalanceNegCapCents)
	incomeSpendScore := IncomeSpendScore(cf.MonthlyIncomeCents, cf.MonthlySpendCents)
	nsfScore := NSFScore(cf.NSFCount, e.params.NSFPenalty)

	paycheck := EstimatePaycheck(txs, cf.MonthlyIncomeCents)

	util := ScoreUtilization(txs, paycheck, e.params)
	var utilPenalty float64
	switch util.Label {
	case LabelHighRisk, LabelVeryHighRisk, LabelCriticalRisk:
		utilPenalty = e.params.UtilPenaltyHighRisk
	case LabelMediumRisk:
		utilPenalty = e.params.UtilPenaltyMediumRisk
	}

	payback := ComputePayback(int64(cf.AvgDailyBalanceCents), util.BurnDays, util.AvgDailySpendCents, paycheck, e.params.PaybackNeutralBand)
	var paybackPenalty float64
	if payback.Label == PaybackNegative {
		paybackPenalty = e.params.PaybackPenalty
	}

	cooldown := CheckCooldown(events, txs, e.params.CooldownHours, now)

	baseScore := balanceScore*e.params.BalanceWeight +
		incomeSpendScore*e.params.IncomeSpendWeight +
		nsfScore*e.params.NSFWeight
	finalScore := clamp(baseScore-utilPenalty-paybackPenalty, 0.0, 100.0)

	tier, limit, tierReason := e.assignTier(finalScore, util.Label, payback.Label, cf.NSFCount, cooldown.Active)

	granted := amountRequestedCents
	if granted > limit {
		granted = limit
	}

	score := &RiskScore{
		AvgDailyBalanceCents: int64(cf.AvgDailyBalanceCents),
		MonthlyIncomeCents:   int64(cf.MonthlyIncomeCents),
		MonthlySpendCents:    int64(cf.MonthlySpendCents),
		NSFCount:             cf.NSFCount,

		BalanceScore:     balanceScore,
		IncomeSpendScore: incomeSpendScore,
		NSFScore:         nsfScore,

		UtilizationPenalty: utilPenalty,
		PaybackPenalty:     paybackPenalty,
		FinalScore:         finalScore,

		Tier:               tier,
		LimitCents:         limit,
		Approved:           limit > 0,
		AmountGrantedCents: granted,

		Paycheck:    paycheck,
		Utilization: util,
		Payback:     payback,
		Cooldown:    cooldown,
	}
	score.Reasons = buildReasons(score, tierReason)

	if e.log != nil {
		e.log.WithFields(logrus.Fields{
			"final_score": fmt.Sprintf("%.1f", finalScore),
			"tier":        tier,
			"limit_cents": limit,
			"utilization": util.Label,
			"payback":     payback.Label,
			"cooldown":    cooldown.Active,
		}).Debug("risk decision computed")
	}
	return score, nil
}

// assignTier maps the combined signals to a tier. Rules run top-down, first
// match wins; cooldown is the only hard block. Tier D is the unconditional
// fallback so every user can build history with a small advance.
func (e *Engine) assignTier(finalScore float64, utilLabel, paybackLabel string, nsfCount int, inCooldown bool) (string, int64, string) {
	if inCooldown {
		return models.TierDeny, 0, "cooldown period active, must wait before a new advance"
	}

	paybackOK := paybackLabel == PaybackPositive || paybackLabel == PaybackNeutral

	if finalScore >= e.params.TierAMinScore &&
		(utilLabel == LabelHealthy || utilLabel == LabelMediumRisk) &&
		paybackOK {
		return models.TierA, e.params.TierALimitCents,
			fmt.Sprintf("Tier A approved: score=%.0f, strong financial health", finalScore)
	}
	if finalScore >= e.params.TierBMinScore && paybackOK {
		return models.TierB, e.params.TierBLimitCents,
			fmt.Sprintf("Tier B approved: score=%.0f, acceptable risk profile", finalScore)
	}
	if finalScore >= e.params.TierCMinScore {
		return models.TierC, e.params.TierCLimitCents,
			fmt.Sprintf("Tier C approved: score=%.0f, limited advance recommended", finalScore)
	}

	notes := ""
	var riskNotes []string
	if finalScore < e.params.TierCMinScore {
		riskNotes = append(riskNotes, fmt.Sprintf("low score (%.0f)", finalScore))
	}
	if nsfCount > 10 {
		riskNotes = append(riskNotes, fmt.Sprintf("%d NSF events", nsfCount))
	}
	if paybackLabel == PaybackNegative {
		riskNotes = append(riskNotes, "negative payback")
	}
	if len(riskNotes) > 0 {
		notes = " (" + strings.Join(riskNotes, ", ") + ")"
	}
	return models.TierD, e.params.TierDLimitCents,
		"Tier D trial: small advance to build history" + notes
}

// buildReasons assembles the explanation trail in a fixed order: income,
// balance, surplus, NSF, utilization, payback, cooldown, tier decision.
func buildReasons(s *RiskScore, tierReason string) []string {
	reasons := make([]string, 0, 8)

	if s.MonthlyIncomeCents > 0 {
		reasons = append(reasons, fmt.Sprintf("Detected monthly income: $%.2f (confidence: %.0f%%)",
			float64(s.MonthlyIncomeCents)/100, s.Paycheck.Confidence*100))
	} else {
		reasons = append(reasons, "No reliable income detected - limited confidence")
	}

	if s.AvgDailyBalanceCents < 0 {
		reasons = append(reasons, fmt.Sprintf("Negative average daily balance: $%.2f", float64(s.AvgDailyBalanceCents)/100))
	} else {
		reasons = append(reasons, fmt.Sprintf("Average daily balance: $%.2f", float64(s.AvgDailyBalanceCents)/100))
	}

	if s.MonthlySpendCents > s.MonthlyIncomeCents {
		reasons = append(reasons, fmt.Sprintf("Spending exceeds income by $%.2f/month",
			float64(s.MonthlySpendCents-s.MonthlyIncomeCents)/100))
	} else if s.MonthlyIncomeCents > 0 {
		reasons = append(reasons, fmt.Sprintf("Monthly surplus: $%.2f",
			float64(s.MonthlyIncomeCents-s.MonthlySpendCents)/100))
	}

	if s.NSFCount > 0 {
		reasons = append(reasons, fmt.Sprintf("%d NSF/overdraft events detected", s.NSFCount))
	} else {
		reasons = append(reasons, "No NSF/overdraft events")
	}

	if s.Utilization.UtilizationPct != nil {
		reasons = append(reasons, fmt.Sprintf("Utilization: %.0f%% (%s)",
			*s.Utilization.UtilizationPct*100, s.Utilization.Label))
	}
	if s.Utilization.BurnDays != nil {
		reasons = append(reasons, fmt.Sprintf("Burn rate: paycheck lasts %.0f days", *s.Utilization.BurnDays))
	}

	reasons = append(reasons, fmt.Sprintf("Payback capacity: %s - %s", s.Payback.Label, s.Payback.Explanation))

	if s.Cooldown.Active {
		reasons = append(reasons, s.Cooldown.Explanation)
	}

	reasons = append(reasons, "Decision: "+tierReason)
	return reasons
}
