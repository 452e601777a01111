package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder exposes decision-flow metrics.
type Recorder struct {
	registry *prometheus.Registry

	decisionsTotal  *prometheus.CounterVec
	decisionScore   prometheus.Histogram
	webhookAttempts *prometheus.CounterVec
}

// NewRecorder builds a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.decisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advance_decisions_total",
		Help: "Advance decisions by tier.",
	}, []string{"tier"})

	r.decisionScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "advance_decision_score",
		Help:    "Final risk score distribution.",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	r.webhookAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advance_webhook_attempts_total",
		Help: "Webhook delivery attempts by outcome.",
	}, []string{"status"})

	r.registry.MustRegister(r.decisionsTotal, r.decisionScore, r.webhookAttempts)
	return r
}

// ObserveDecision records one finished decision.
func (r *Recorder) ObserveDecision(tier string, score float64) {
	r.decisionsTotal.WithLabelValues(tier).Inc()
	r.decisionScore.Observe(score)
}

// ObserveWebhookAttempt records one delivery attempt outcome.
func (r *Recorder) ObserveWebhookAttempt(success bool) {
	status := "failure"
	if success {
		status = "success"
	}
	r.webhookAttempts.WithLabelValues(status).Inc()
}

// Handler serves the registry in Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
