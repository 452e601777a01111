package risk

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/cashlane/advance-service/internal/models"
)

// PaycheckInfo is the estimated recurring income signal. AvgPaycheckCents is
// nil when no income could be detected at all.
type PaycheckInfo struct {
	AvgPaycheckCents *int64
	PeriodDays       float64
	Confidence       float64
}

// Recognized pay cadences in days.
var payCadences = []float64{7, 14, 30}

// Deposits count as the same recurring stream when within 25% of the
// stream's running mean amount.
const amountTolerance = 0.25

// A pattern below this confidence is discarded in favor of the
// monthly-income fallback. Matches the cutoff the utilization scorer uses.
const minPatternConfidence = 0.3

// EstimatePaycheck detects recurring credit deposits of similar magnitude
// recurring roughly every 7, 14 or 30 days. When no pattern is found it falls
// back to the monthly income with period 30 and confidence 0.8 (0.0 and no
// amount when there is no income either).
func EstimatePaycheck(txs []models.Transaction, monthlyIncomeCents float64) PaycheckInfo {
	if info, ok := detectRecurring(txs); ok {
		return info
	}
	if monthlyIncomeCents > 0 {
		amt := int64(monthlyIncomeCents)
		return PaycheckInfo{AvgPaycheckCents: &amt, PeriodDays: 30, Confidence: 0.8}
	}
	return PaycheckInfo{PeriodDays: 30, Confidence: 0.0}
}

type depositStream struct {
	amounts []float64
	dates   []time.Time
	mean    float64
}

func detectRecurring(txs []models.Transaction) (PaycheckInfo, bool) {
	var streams []*depositStream
	for _, t := range txs {
		if t.Type != models.TransactionCredit || t.AmountCents <= 0 {
			continue
		}
		amt := float64(t.AmountCents)
		var target *depositStream
		for _, s := range streams {
			if diff := amt - s.mean; diff < s.mean*amountTolerance && diff > -s.mean*amountTolerance {
				target = s
				break
			}
		}
		if target == nil {
			target = &depositStream{}
			streams = append(streams, target)
		}
		target.amounts = append(target.amounts, amt)
		target.dates = append(target.dates, t.Date)
		target.mean = stat.Mean(target.amounts, nil)
	}

	best := PaycheckInfo{}
	bestMatches := 0
	for _, s := range streams {
		info, matches, ok := scoreStream(s)
		if !ok {
			continue
		}
		if matches > bestMatches || (matches == bestMatches && info.Confidence > best.Confidence) {
			best = info
			bestMatches = matches
		}
	}
	if bestMatches == 0 || best.Confidence < minPatternConfidence {
		return PaycheckInfo{}, false
	}
	return best, true
}

func scoreStream(s *depositStream) (PaycheckInfo, int, bool) {
	if len(s.dates) < 3 {
		return PaycheckInfo{}, 0, false
	}

	gaps := make([]float64, 0, len(s.dates)-1)
	for i := 1; i < len(s.dates); i++ {
		gap := s.dates[i].Sub(s.dates[i-1]).Hours() / 24
		if gap > 0 {
			gaps = append(gaps, gap)
		}
	}
	if len(gaps) < 2 {
		return PaycheckInfo{}, 0, false
	}

	sort.Float64s(gaps)
	medianGap := stat.Quantile(0.5, stat.Empirical, gaps, nil)

	// The median gap must land near a recognized cadence.
	matched := false
	for _, cadence := range payCadences {
		if diff := medianGap - cadence; diff <= cadence*0.25 && diff >= -cadence*0.25 {
			matched = true
			break
		}
	}
	if !matched {
		return PaycheckInfo{}, 0, false
	}

	// Confidence grows with the number of matched deposits and shrinks with
	// gap and amount dispersion.
	confidence := 0.5 + 0.05*float64(len(s.dates))
	if confidence > 0.8 {
		confidence = 0.8
	}
	confidence -= 0.5 * variationCoefficient(gaps)
	confidence -= 0.5 * variationCoefficient(s.amounts)
	confidence = clamp(confidence, 0.0, 1.0)

	amt := int64(s.mean)
	return PaycheckInfo{
		AvgPaycheckCents: &amt,
		PeriodDays:       medianGap,
		Confidence:       confidence,
	}, len(s.dates), true
}

func variationCoefficient(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := stat.Mean(xs, nil)
	if mean == 0 {
		return 0
	}
	return stat.StdDev(xs, nil) / mean
}
