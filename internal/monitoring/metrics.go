// Package monitoring instruments the suggestion engine: Prometheus
// metrics for the oracle boundary and batch pipeline, plus a lightweight
// in-memory snapshot of the most recent batch.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Oracle call outcomes recorded on the oracle_requests_total counter.
const (
	OutcomeSuccess    = "success"
	OutcomeError      = "error"
	OutcomeMalformed  = "malformed"
	OutcomePermission = "permission_denied"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	OracleRequests  *prometheus.CounterVec
	OracleFallbacks prometheus.Counter
	BatchDuration   prometheus.Histogram
	Suggestions     prometheus.Counter
	Skipped         prometheus.Counter
}

// NewMetrics registers the engine collectors on the given registerer.
// Pass prometheus.DefaultRegisterer in production; tests use a fresh
// registry to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OracleRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "procura_oracle_requests_total",
			Help: "Oracle completion attempts by outcome.",
		}, []string{"outcome"}),
		OracleFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "procura_oracle_fallbacks_total",
			Help: "Recommendations served by the deterministic fallback.",
		}),
		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "procura_batch_duration_seconds",
			Help:    "Wall time of one suggestion batch.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		Suggestions: factory.NewCounter(prometheus.CounterOpts{
			Name: "procura_suggestions_total",
			Help: "Purchase-order suggestions emitted.",
		}),
		Skipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "procura_materials_skipped_total",
			Help: "Materials skipped for lack of an eligible supplier.",
		}),
	}
}

// RecordOracleAttempt counts one oracle call with its outcome.
func (m *Metrics) RecordOracleAttempt(outcome string) {
	if m == nil {
		return
	}
	m.OracleRequests.WithLabelValues(outcome).Inc()
}

// RecordFallback counts a recommendation served without the oracle.
func (m *Metrics) RecordFallback() {
	if m == nil {
		return
	}
	m.OracleFallbacks.Inc()
}

// RecordBatch records the totals of one completed batch.
func (m *Metrics) RecordBatch(seconds float64, suggestions, skipped int) {
	if m == nil {
		return
	}
	m.BatchDuration.Observe(seconds)
	m.Suggestions.Add(float64(suggestions))
	m.Skipped.Add(float64(skipped))
}
