package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func burn(v float64) *float64 {
	return &v
}

func TestComputePayback_Labels(t *testing.T) {
	paycheck := paycheckOf(100000, 14, 0.7) // neutral band = +-10000

	tests := []struct {
		name         string
		balanceCents int64
		burnDays     *float64
		spendCents   int64
		wantCapacity int64
		wantLabel    string
	}{
		{"surplus", 50000, burn(10), 2000, 30000, PaybackPositive},
		{"small deficit stays neutral", 15000, burn(10), 2000, -5000, PaybackNeutral},
		{"deep deficit", 0, burn(10), 2000, -20000, PaybackNegative},
		{"exactly at band is positive", 30000, burn(10), 2000, 10000, PaybackPositive},
		{"exactly at negative band is neutral", 10000, burn(10), 2000, -10000, PaybackNeutral},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := ComputePayback(tc.balanceCents, tc.burnDays, tc.spendCents, paycheck, 0.10)
			assert.Equal(t, tc.wantCapacity, res.CapacityCents)
			assert.Equal(t, tc.wantLabel, res.Label)
			assert.NotEmpty(t, res.Explanation)
		})
	}
}

func TestComputePayback_DefaultBurnDays(t *testing.T) {
	paycheck := paycheckOf(100000, 14, 0.7)

	// Missing burn days projects a 30-day horizon.
	res := ComputePayback(50000, nil, 1000, paycheck, 0.10)
	assert.Equal(t, int64(20000), res.CapacityCents)
	assert.Equal(t, PaybackPositive, res.Label)

	zero := ComputePayback(50000, burn(0), 1000, paycheck, 0.10)
	assert.Equal(t, int64(20000), zero.CapacityCents)
}

func TestComputePayback_NoPaycheckIsNeutral(t *testing.T) {
	res := ComputePayback(-100000, burn(20), 5000, PaycheckInfo{PeriodDays: 30}, 0.10)

	assert.Equal(t, PaybackNeutral, res.Label)
	assert.Equal(t, int64(-200000), res.CapacityCents)
}
