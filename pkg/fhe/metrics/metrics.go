// Package metrics counts calls across the flat boundary by operation and
// status, and records their latency.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the boundary metrics.
type Registry struct {
	CallsTotal      *prometheus.CounterVec
	CallDuration    *prometheus.HistogramVec
	PanicsRecovered prometheus.Counter
	LiveHandles     *prometheus.GaugeVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry the flat boundary
// records into.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with every metric initialized.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.CallsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cbfhe_calls_total",
			Help: "Flat boundary calls by operation and returned status",
		},
		[]string{"op", "status"},
	)
	r.CallDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cbfhe_call_duration_seconds",
			Help:    "Flat boundary call latency in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"op"},
	)
	r.PanicsRecovered = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "cbfhe_panics_recovered_total",
			Help: "Panics converted into an internal-error status",
		},
	)
	r.LiveHandles = promauto.With(reg).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cbfhe_live_handles",
			Help: "Handles currently registered, by entity kind",
		},
		[]string{"kind"},
	)
	return r
}

// Gatherer exposes the underlying registry for export.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// RecordCall records one completed boundary call.
func (r *Registry) RecordCall(op, status string, duration time.Duration) {
	r.CallsTotal.WithLabelValues(op, status).Inc()
	r.CallDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordPanic counts a recovered panic.
func (r *Registry) RecordPanic() {
	r.PanicsRecovered.Inc()
}

// HandleOpened and HandleClosed track the live handle gauge.
func (r *Registry) HandleOpened(kind string) {
	r.LiveHandles.WithLabelValues(kind).Inc()
}

func (r *Registry) HandleClosed(kind string) {
	r.LiveHandles.WithLabelValues(kind).Dec()
}
