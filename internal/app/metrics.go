package app

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "drawd"

type Metrics struct {
	Rounds               *prometheus.CounterVec
	CommitmentMismatches prometheus.Counter
	AuditSeconds         prometheus.Histogram
}

// NewMetrics builds the audit service collectors and registers them with
// reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rounds_total",
			Help:      "Audited round transcripts by verdict.",
		}, []string{"verdict"}),
		CommitmentMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "commitment_mismatches_total",
			Help:      "Transcripts rejected because a reveal did not open its commitment.",
		}),
		AuditSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "audit_duration_seconds",
			Help:      "Time spent auditing one transcript.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Rounds, m.CommitmentMismatches, m.AuditSeconds)
	}
	return m
}
