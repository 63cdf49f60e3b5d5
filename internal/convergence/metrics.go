package convergence

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes convergence instrumentation.
type Metrics struct {
	actionsTotal  *prometheus.CounterVec
	applyDuration prometheus.Histogram
}

// NewMetrics creates and registers the convergence metrics on the given
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		actionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "netforge",
				Subsystem: "convergence",
				Name:      "actions_total",
				Help:      "Total number of executed actions by operation and result",
			},
			[]string{"op", "result"},
		),
		applyDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "netforge",
				Subsystem: "convergence",
				Name:      "apply_duration_seconds",
				Help:      "Duration of apply sessions in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~3.4min
			},
		),
	}
	reg.MustRegister(m.actionsTotal, m.applyDuration)
	return m
}

func (m *Metrics) observeAction(op Op, result string) {
	if m == nil {
		return
	}
	m.actionsTotal.WithLabelValues(string(op), result).Inc()
}

func (m *Metrics) observeApply(d time.Duration) {
	if m == nil {
		return
	}
	m.applyDuration.Observe(d.Seconds())
}
