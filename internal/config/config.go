package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cashlane/advance-service/internal/risk"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBConn   string
	LogLevel string

	WebhookURL string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string

	MetricsEnabled bool

	// Cron spec for the nightly overdue-installment sweep.
	OverdueSweepSpec string

	Risk risk.Params
}

// NewConfig loads configuration from environment variables. Engine parameter
// validation happens at engine construction, not here.
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		DBConn:   getEnv("DB_CONN", "host=localhost port=5432 user=advance password=advance dbname=advance sslmode=disable"),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),

		WebhookURL: getEnv("WEBHOOK_URL", ""),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "noreply@cashlane.io"),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),

		OverdueSweepSpec: getEnv("OVERDUE_SWEEP_SPEC", "0 3 * * *"),

		Risk: loadRiskParams(),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}

	return cfg, nil
}

// loadRiskParams overlays environment values onto the engine defaults.
func loadRiskParams() risk.Params {
	p := risk.DefaultParams()

	p.BalanceWeight = getEnvFloat("RISK_BALANCE_WEIGHT", p.BalanceWeight)
	p.IncomeSpendWeight = getEnvFloat("RISK_INCOME_SPEND_WEIGHT", p.IncomeSpendWeight)
	p.NSFWeight = getEnvFloat("RISK_NSF_WEIGHT", p.NSFWeight)
	p.BalanceNegCapCents = getEnvInt("RISK_BALANCE_NEG_CAP", p.BalanceNegCapCents)
	p.NSFPenalty = getEnvFloat("RISK_NSF_PENALTY", p.NSFPenalty)
	p.PaybackPenalty = getEnvFloat("RISK_PAYBACK_PENALTY", p.PaybackPenalty)
	p.UtilPenaltyHighRisk = getEnvFloat("UTIL_PENALTY_HIGH_RISK", p.UtilPenaltyHighRisk)
	p.UtilPenaltyMediumRisk = getEnvFloat("UTIL_PENALTY_MEDIUM_RISK", p.UtilPenaltyMediumRisk)

	p.Utilization = loadGaussian("UTIL", p.Utilization)
	p.BurnDays = loadGaussian("BURN", p.BurnDays)
	p.DailySpend = loadGaussian("SPEND", p.DailySpend)

	p.LabelThresholds = []risk.LabelThreshold{
		{Min: getEnvFloat("LABEL_HEALTHY", 80), Label: risk.LabelHealthy},
		{Min: getEnvFloat("LABEL_MEDIUM_RISK", 60), Label: risk.LabelMediumRisk},
		{Min: getEnvFloat("LABEL_HIGH_RISK", 40), Label: risk.LabelHighRisk},
		{Min: getEnvFloat("LABEL_VERY_HIGH_RISK", 20), Label: risk.LabelVeryHighRisk},
		{Min: 0, Label: risk.LabelCriticalRisk},
	}

	p.PaybackNeutralBand = getEnvFloat("PAYBACK_NEUTRAL_BAND", p.PaybackNeutralBand)
	p.CooldownHours = int(getEnvInt("COOLDOWN_HOURS", int64(p.CooldownHours)))

	p.TierALimitCents = getEnvInt("BNPL_TIER_A_LIMIT", p.TierALimitCents)
	p.TierBLimitCents = getEnvInt("BNPL_TIER_B_LIMIT", p.TierBLimitCents)
	p.TierCLimitCents = getEnvInt("BNPL_TIER_C_LIMIT", p.TierCLimitCents)
	p.TierDLimitCents = getEnvInt("BNPL_TIER_D_LIMIT", p.TierDLimitCents)

	p.TierAMinScore = getEnvFloat("BNPL_TIER_A_MIN_SCORE", p.TierAMinScore)
	p.TierBMinScore = getEnvFloat("BNPL_TIER_B_MIN_SCORE", p.TierBMinScore)
	p.TierCMinScore = getEnvFloat("BNPL_TIER_C_MIN_SCORE", p.TierCMinScore)

	return p
}

// loadGaussian reads MU/SIGMA/WEIGHT for one scorer. A plain SIGMA sets both
// sides; SIGMA_LOW/SIGMA_HIGH override per side for asymmetric curves.
func loadGaussian(prefix string, def risk.GaussianParams) risk.GaussianParams {
	g := def
	g.Mu = getEnvFloat(prefix+"_MU", g.Mu)
	if v, ok := os.LookupEnv(prefix + "_SIGMA"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			g.SigmaLow = f
			g.SigmaHigh = f
		}
	}
	g.SigmaLow = getEnvFloat(prefix+"_SIGMA_LOW", g.SigmaLow)
	g.SigmaHigh = getEnvFloat(prefix+"_SIGMA_HIGH", g.SigmaHigh)
	g.Weight = getEnvFloat(prefix+"_WEIGHT", g.Weight)
	return g
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}
