package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Generation outcomes recorded by DesignGenMetrics.
const (
	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomeInvalid     = "invalid"
	OutcomeFailed      = "failed"
	OutcomeDiscarded   = "discarded"
)

// DesignGenMetrics records AI design generation attempts.
type DesignGenMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewDesignGenMetrics registers the generation metrics on the provided registerer.
func NewDesignGenMetrics(reg prometheus.Registerer) *DesignGenMetrics {
	if reg == nil {
		return &DesignGenMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "design_generation_duration_seconds",
		Help:    "Duration of AI design provider calls in seconds.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
	}, []string{"provider"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "design_generation_total",
		Help: "AI design generation attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, outcomes)
	return &DesignGenMetrics{
		duration: duration,
		outcomes: outcomes,
	}
}

// ObserveDuration records how long the named provider took to answer.
func (m *DesignGenMetrics) ObserveDuration(provider string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(provider)).Observe(duration.Seconds())
}

// IncOutcome increments the counter for the given outcome.
func (m *DesignGenMetrics) IncOutcome(outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
