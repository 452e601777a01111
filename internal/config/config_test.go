package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashlane/advance-service/internal/risk"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "0 3 * * *", cfg.OverdueSweepSpec)
	assert.Equal(t, risk.DefaultParams(), cfg.Risk)
	require.NoError(t, cfg.Risk.Validate())
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("COOLDOWN_HOURS", "24")
	t.Setenv("BNPL_TIER_A_LIMIT", "50000")
	t.Setenv("RISK_NSF_PENALTY", "10.5")
	t.Setenv("LABEL_HEALTHY", "85")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, 24, cfg.Risk.CooldownHours)
	assert.Equal(t, int64(50000), cfg.Risk.TierALimitCents)
	assert.InDelta(t, 10.5, cfg.Risk.NSFPenalty, 0.001)
	assert.InDelta(t, 85.0, cfg.Risk.LabelThresholds[0].Min, 0.001)
}

func TestNewConfig_GaussianSigmaShorthand(t *testing.T) {
	// A plain SIGMA sets both sides, SIGMA_HIGH then overrides one.
	t.Setenv("UTIL_SIGMA", "0.4")
	t.Setenv("BURN_SIGMA", "15")
	t.Setenv("BURN_SIGMA_HIGH", "45")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.InDelta(t, 0.4, cfg.Risk.Utilization.SigmaLow, 0.001)
	assert.InDelta(t, 0.4, cfg.Risk.Utilization.SigmaHigh, 0.001)
	assert.InDelta(t, 15.0, cfg.Risk.BurnDays.SigmaLow, 0.001)
	assert.InDelta(t, 45.0, cfg.Risk.BurnDays.SigmaHigh, 0.001)
}

func TestNewConfig_BadValuesKeepDefaults(t *testing.T) {
	t.Setenv("RISK_BALANCE_WEIGHT", "not-a-number")
	t.Setenv("COOLDOWN_HOURS", "soon")

	cfg, err := NewConfig()
	require.NoError(t, err)

	defaults := risk.DefaultParams()
	assert.InDelta(t, defaults.BalanceWeight, cfg.Risk.BalanceWeight, 0.001)
	assert.Equal(t, defaults.CooldownHours, cfg.Risk.CooldownHours)
}
