package risk

import (
	"time"

	"github.com/cashlane/advance-service/internal/models"
)

// CashFlow aggregates the observed ledger window.
type CashFlow struct {
	AvgDailyBalanceCents float64
	MonthlyIncomeCents   float64
	MonthlySpendCents    float64
	NSFCount             int
	WindowDays           int
}

// AggregateCashFlow computes average daily balance, 30-day-scaled income and
// spend, and the NSF count over the transactions' date range. Transactions
// must already be normalized and sorted.
func AggregateCashFlow(txs []models.Transaction) CashFlow {
	if len(txs) == 0 {
		return CashFlow{}
	}

	start := txs[0].Date
	end := txs[len(txs)-1].Date
	windowDays := int(end.Sub(start).Hours()/24) + 1
	if windowDays < 1 {
		windowDays = 1
	}

	return CashFlow{
		AvgDailyBalanceCents: avgDailyBalance(txs, start, windowDays),
		MonthlyIncomeCents:   monthlyize(sumByType(txs, models.TransactionCredit), windowDays),
		MonthlySpendCents:    monthlyize(sumByType(txs, models.TransactionDebit), windowDays),
		NSFCount:             countNSF(txs),
		WindowDays:           windowDays,
	}
}

// avgDailyBalance walks every calendar day in the window and carries the last
// known balance forward over days without transactions. Days before the first
// known balance count as 0. For a day with several transactions the first
// reported balance wins.
func avgDailyBalance(txs []models.Transaction, start time.Time, windowDays int) float64 {
	dayBalance := make(map[time.Time]int64, len(txs))
	var lastKnown int64
	for _, t := range txs {
		if t.BalanceCents != nil {
			lastKnown = *t.BalanceCents
		}
		if _, seen := dayBalance[t.Date]; !seen {
			if t.BalanceCents != nil {
				dayBalance[t.Date] = *t.BalanceCents
			} else {
				dayBalance[t.Date] = lastKnown
			}
		}
	}

	var sum int64
	var carried int64
	for i := 0; i < windowDays; i++ {
		d := start.AddDate(0, 0, i)
		if b, ok := dayBalance[d]; ok {
			carried = b
		}
		sum += carried
	}
	return float64(sum) / float64(windowDays)
}

func sumByType(txs []models.Transaction, typ string) int64 {
	var total int64
	for _, t := range txs {
		if t.Type == typ {
			total += t.AmountCents
		}
	}
	return total
}

// monthlyize scales a window total to a 30-day month.
func monthlyize(totalCents int64, windowDays int) float64 {
	return float64(totalCents) * 30.0 / float64(windowDays)
}

// countNSF counts overdraft events. A transaction counts once when it is
// flagged nsf, or else when it is a debit that left the balance negative;
// never both.
func countNSF(txs []models.Transaction) int {
	count := 0
	for _, t := range txs {
		switch {
		case t.NSF:
			count++
		case t.Type == models.TransactionDebit && t.BalanceCents != nil && *t.BalanceCents < 0:
			count++
		}
	}
	return count
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// BalanceScore is 100 for a non-negative average balance and interpolates
// linearly to 0 as the balance falls to -negCapCents.
func BalanceScore(avgDailyBalanceCents float64, negCapCents int64) float64 {
	if avgDailyBalanceCents >= 0 {
		return 100.0
	}
	deficit := -avgDailyBalanceCents
	if deficit > float64(negCapCents) {
		deficit = float64(negCapCents)
	}
	return clamp(100.0*(1.0-deficit/float64(negCapCents)), 0.0, 100.0)
}

// IncomeSpendScore is the income/spend ratio scaled to [0,100]. With no
// spending it is 100 when there is income and 0 when there is neither.
func IncomeSpendScore(monthlyIncomeCents, monthlySpendCents float64) float64 {
	if monthlySpendCents <= 0 {
		if monthlyIncomeCents > 0 {
			return 100.0
		}
		return 0.0
	}
	return clamp(monthlyIncomeCents/monthlySpendCents*100.0, 0.0, 100.0)
}

// NSFScore starts at 100 and loses penalty points per NSF event.
func NSFScore(nsfCount int, penalty float64) float64 {
	return clamp(100.0-float64(nsfCount)*penalty, 0.0, 100.0)
}
