package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cepform"

// Lookup outcomes.
const (
	OutcomeFound   = "found"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

// Restore outcomes.
const (
	OutcomeRestored = "restored"
	OutcomeEmpty    = "empty"
	OutcomeCorrupt  = "corrupt"
)

// FormMetrics holds Prometheus collectors for the address form.
// A nil *FormMetrics records nothing.
type FormMetrics struct {
	Lookups        *prometheus.CounterVec
	LookupDuration prometheus.Histogram
	Restores       *prometheus.CounterVec
	Submissions    prometheus.Counter
}

// NewFormMetrics creates the collectors and registers them on reg.
func NewFormMetrics(reg prometheus.Registerer) *FormMetrics {
	m := &FormMetrics{
		Lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lookups_total",
				Help:      "Postal code lookups by outcome",
			},
			[]string{"outcome"},
		),
		LookupDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "lookup_duration_seconds",
				Help:      "Time spent waiting for ViaCEP",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
		Restores: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "restores_total",
				Help:      "Page loads by stored address outcome",
			},
			[]string{"outcome"},
		),
		Submissions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Simulated form submissions",
			},
		),
	}

	reg.MustRegister(m.Lookups, m.LookupDuration, m.Restores, m.Submissions)
	return m
}

func (m *FormMetrics) RecordLookup(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(outcome).Inc()
	m.LookupDuration.Observe(elapsed.Seconds())
}

func (m *FormMetrics) RecordRestore(outcome string) {
	if m == nil {
		return
	}
	m.Restores.WithLabelValues(outcome).Inc()
}

func (m *FormMetrics) RecordSubmission() {
	if m == nil {
		return
	}
	m.Submissions.Inc()
}
