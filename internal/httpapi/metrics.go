package httpapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts solves by outcome and histograms solve latency per
// solver kind.
type Metrics struct {
	solves  *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewMetrics registers the solve counters/histogram on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradplan_solves_total",
			Help: "Total solver invocations by solver kind and outcome.",
		}, []string{"solver", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gradplan_solve_duration_seconds",
			Help:    "Solve latency by solver kind.",
			Buckets: prometheus.DefBuckets,
		}, []string{"solver"}),
	}
	reg.MustRegister(m.solves, m.latency)
	return m
}

// ObserveSolve records one solve's outcome and latency.
func (m *Metrics) ObserveSolve(solver, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.solves.WithLabelValues(solver, status).Inc()
	m.latency.WithLabelValues(solver).Observe(elapsed.Seconds())
}
