package risk

import "math"

// Utilization labels, ordered from best to worst.
const (
	LabelHealthy      = "healthy"
	LabelMediumRisk   = "medium-risk"
	LabelHighRisk     = "high-risk"
	LabelVeryHighRisk = "very-high-risk"
	LabelCriticalRisk = "critical-risk"
	LabelUnknown      = "unknown"
)

// Payback capacity labels.
const (
	PaybackPositive = "positive"
	PaybackNeutral  = "neutral"
	PaybackNegative = "negative"
)

// GaussianParams configures one bell-curve scorer. SigmaLow applies at or
// below Mu, SigmaHigh above it, so each metric can penalize one deviation
// direction harder than the other.
type GaussianParams struct {
	Mu        float64
	SigmaLow  float64
	SigmaHigh float64
	Weight    float64
}

// LabelThreshold maps a minimum composite score to a utilization label.
type LabelThreshold struct {
	Min   float64
	Label string
}

// Params is the full, immutable parameter set of the engine. Every
// computation is a pure function of (inputs, Params); the engine never reads
// process state. Safe to share across concurrent decisions.
type Params struct {
	// Component weights, must sum to 1.0.
	BalanceWeight     float64
	IncomeSpendWeight float64
	NSFWeight         float64

	// Balance score hits 0 when the average daily balance falls to
	// -BalanceNegCapCents.
	BalanceNegCapCents int64
	NSFPenalty         float64

	// Penalties subtracted from the base score.
	PaybackPenalty        float64
	UtilPenaltyHighRisk   float64
	UtilPenaltyMediumRisk float64

	// Gaussian scorers; weights must sum to 1.0.
	Utilization GaussianParams
	BurnDays    GaussianParams
	DailySpend  GaussianParams

	// Descending composite-score cutoffs; anything below the last entry is
	// critical-risk.
	LabelThresholds []LabelThreshold

	// Neutral band for payback capacity as a fraction of the paycheck.
	PaybackNeutralBand float64

	CooldownHours int

	TierALimitCents int64
	TierBLimitCents int64
	TierCLimitCents int64
	TierDLimitCents int64

	TierAMinScore float64
	TierBMinScore float64
	TierCMinScore float64
}

// DefaultParams returns the production defaults. Deployments override them
// through environment configuration.
func DefaultParams() Params {
	return Params{
		BalanceWeight:     0.5,
		IncomeSpendWeight: 0.3,
		NSFWeight:         0.2,

		BalanceNegCapCents: 10000,
		NSFPenalty:         25.0,

		PaybackPenalty:        10.0,
		UtilPenaltyHighRisk:   15.0,
		UtilPenaltyMediumRisk: 7.5,

		Utilization: GaussianParams{Mu: 0.6, SigmaLow: 0.5, SigmaHigh: 0.25, Weight: 0.45},
		BurnDays:    GaussianParams{Mu: 30.0, SigmaLow: 10.0, SigmaHigh: 30.0, Weight: 0.35},
		DailySpend:  GaussianParams{Mu: 0.033, SigmaLow: 0.02, SigmaHigh: 0.015, Weight: 0.20},

		LabelThresholds: []LabelThreshold{
			{Min: 80, Label: LabelHealthy},
			{Min: 60, Label: LabelMediumRisk},
			{Min: 40, Label: LabelHighRisk},
			{Min: 20, Label: LabelVeryHighRisk},
			{Min: 0, Label: LabelCriticalRisk},
		},

		PaybackNeutralBand: 0.10,

		CooldownHours: 72,

		TierALimitCents: 20000,
		TierBLimitCents: 12000,
		TierCLimitCents: 6000,
		TierDLimitCents: 2000,

		TierAMinScore: 75.0,
		TierBMinScore: 55.0,
		TierCMinScore: 35.0,
	}
}

// Validate checks the parameter set. Weight sums are a configuration error,
// never silently corrected.
func (p Params) Validate() error {
	if s := p.BalanceWeight + p.IncomeSpendWeight + p.NSFWeight; math.Abs(s-1.0) > 0.01 {
		return &ConfigurationError{Param: "risk weights", Reason: "balance+income_spend+nsf weights must sum to 1.0"}
	}
	if s := p.Utilization.Weight + p.BurnDays.Weight + p.DailySpend.Weight; math.Abs(s-1.0) > 0.01 {
		return &ConfigurationError{Param: "utilization weights", Reason: "util+burn+spend weights must sum to 1.0"}
	}
	for _, g := range []struct {
		name string
		gp   GaussianParams
	}{
		{"util", p.Utilization},
		{"burn", p.BurnDays},
		{"spend", p.DailySpend},
	} {
		if g.gp.SigmaLow <= 0 || g.gp.SigmaHigh <= 0 {
			return &ConfigurationError{Param: g.name + "_sigma", Reason: "sigma must be positive"}
		}
	}
	if p.BalanceNegCapCents <= 0 {
		return &ConfigurationError{Param: "risk_balance_neg_cap", Reason: "must be positive"}
	}
	if p.TierAMinScore < p.TierBMinScore || p.TierBMinScore < p.TierCMinScore {
		return &ConfigurationError{Param: "tier_min_scores", Reason: "must be non-increasing from tier A to tier C"}
	}
	if p.CooldownHours < 0 {
		return &ConfigurationError{Param: "cooldown_hours", Reason: "must not be negative"}
	}
	if len(p.LabelThresholds) == 0 {
		return &ConfigurationError{Param: "label_thresholds", Reason: "at least one threshold required"}
	}
	for i := 1; i < len(p.LabelThresholds); i++ {
		if p.LabelThresholds[i].Min > p.LabelThresholds[i-1].Min {
			return &ConfigurationError{Param: "label_thresholds", Reason: "cutoffs must be descending"}
		}
	}
	return nil
}
