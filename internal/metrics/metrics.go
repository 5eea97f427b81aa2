// Package metrics holds the Prometheus collectors of the enrichment engine.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "field_assembler"
	subsystem = "engine"
)

// Write outcomes.
const (
	WriteWritten = "written"
	WriteSkipped = "skipped"
	WriteFailed  = "failed"
)

// Metrics holds the engine collectors.
type Metrics struct {
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fetchedKeys   *prometheus.CounterVec
	writes        *prometheus.CounterVec
	executions    *prometheus.HistogramVec
}

// New creates unregistered collectors.
func New() *Metrics {
	return &Metrics{
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fetches_total",
				Help:      "Container fetch calls, one per (container, namespace) group.",
			},
			[]string{"container", "namespace", "result"}, // "success" or "error"
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fetch_duration_seconds",
				Help:      "Container fetch time in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
			},
			[]string{"container"},
		),
		fetchedKeys: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fetched_keys_total",
				Help:      "Deduplicated keys sent to containers.",
			},
			[]string{"container"},
		),
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "writes_total",
				Help:      "Property mapping writes by outcome.",
			},
			[]string{"result"},
		),
		executions: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "execution_duration_seconds",
				Help:      "Duration of one enrichment call in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),
	}
}

// Register registers the collectors with the given registry, stopping at
// the first failure.
func (m *Metrics) Register(registry prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.fetches, m.fetchDuration, m.fetchedKeys, m.writes, m.executions} {
		if err := registry.Register(c); err != nil {
			return err
		}
	}

	return nil
}

// MustRegister registers the collectors with the given registry.
func (m *Metrics) MustRegister(registry prometheus.Registerer) {
	registry.MustRegister(m.fetches, m.fetchDuration, m.fetchedKeys, m.writes, m.executions)
}

// ObserveFetch records one container fetch.
func (m *Metrics) ObserveFetch(container, ns string, keys int, d time.Duration, err error) {
	if m == nil {
		return
	}

	result := "success"
	if err != nil {
		result = "error"
	}

	m.fetches.WithLabelValues(container, ns, result).Inc()
	m.fetchDuration.WithLabelValues(container).Observe(d.Seconds())
	m.fetchedKeys.WithLabelValues(container).Add(float64(keys))
}

// ObserveWrite records one write outcome.
func (m *Metrics) ObserveWrite(result string) {
	if m == nil {
		return
	}

	m.writes.WithLabelValues(result).Inc()
}

// ObserveExecution records the duration of one enrichment call.
func (m *Metrics) ObserveExecution(strategy string, d time.Duration) {
	if m == nil {
		return
	}

	m.executions.WithLabelValues(strategy).Observe(d.Seconds())
}
