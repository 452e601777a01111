package risk

import "fmt"

// PaybackResult projects the user's funds at paycheck-depletion time.
type PaybackResult struct {
	CapacityCents int64  `json:"capacity_cents"`
	Label         string `json:"label"`
	Explanation   string `json:"explanation"`
}

// ComputePayback projects the balance remaining once the paycheck is burned:
// avg daily balance minus burnDays x avg daily spend. The neutral band keeps
// small drift around zero from flipping the label; it spans neutralBand of
// the paycheck on each side. Without a paycheck estimate the label is neutral
// and the signal carries no weight downstream.
func ComputePayback(avgDailyBalanceCents int64, burnDays *float64, avgDailySpendCents int64, paycheck PaycheckInfo, neutralBand float64) PaybackResult {
	effectiveBurnDays := 30.0
	if burnDays != nil && *burnDays > 0 {
		effectiveBurnDays = *burnDays
	}

	projectedSpend := int64(effectiveBurnDays * float64(avgDailySpendCents))
	capacity := avgDailyBalanceCents - projectedSpend

	if paycheck.AvgPaycheckCents == nil || *paycheck.AvgPaycheckCents <= 0 {
		return PaybackResult{
			CapacityCents: capacity,
			Label:         PaybackNeutral,
			Explanation:   "no paycheck estimate available, payback signal carries no weight",
		}
	}

	band := int64(float64(*paycheck.AvgPaycheckCents) * neutralBand)
	switch {
	case capacity >= band:
		return PaybackResult{
			CapacityCents: capacity,
			Label:         PaybackPositive,
			Explanation:   fmt.Sprintf("projected surplus of $%.2f at paycheck depletion", float64(capacity)/100),
		}
	case capacity >= -band:
		return PaybackResult{
			CapacityCents: capacity,
			Label:         PaybackNeutral,
			Explanation:   fmt.Sprintf("projected balance of $%.2f is within the neutral band", float64(capacity)/100),
		}
	default:
		return PaybackResult{
			CapacityCents: capacity,
			Label:         PaybackNegative,
			Explanation:   fmt.Sprintf("projected deficit of $%.2f, high repayment risk", float64(-capacity)/100),
		}
	}
}
