// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pocketsage"

// Metrics groups the server's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	RPCRequests      *prometheus.CounterVec
	RPCDuration      *prometheus.HistogramVec
	ProjectionMonths *prometheus.HistogramVec
	NonConvergent    prometheus.Counter
	CacheLookups     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		ProjectionMonths: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payoff_projection_months",
			Help:      "Length of computed payoff schedules in months.",
			Buckets:   []float64{1, 6, 12, 24, 36, 60, 120, 240, 600, 1200},
		}, []string{"strategy"}),
		NonConvergent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payoff_non_convergent_total",
			Help:      "Projections rejected because the debts never reach zero.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Projection cache lookups by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.RPCRequests, m.RPCDuration, m.ProjectionMonths, m.NonConvergent, m.CacheLookups)
	return m
}

// ObserveRPC counts one finished call and records its latency.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RPCRequests.WithLabelValues(procedure, code).Inc()
	m.RPCDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// ObserveProjection records the length of a computed schedule.
func (m *Metrics) ObserveProjection(strategy string, months int) {
	if m == nil {
		return
	}
	m.ProjectionMonths.WithLabelValues(strategy).Observe(float64(months))
}

// IncNonConvergent counts a projection that could not be paid off.
func (m *Metrics) IncNonConvergent() {
	if m == nil {
		return
	}
	m.NonConvergent.Inc()
}

// ObserveCache counts a cache hit or miss.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
