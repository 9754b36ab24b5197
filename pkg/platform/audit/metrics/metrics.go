// Package metrics instruments the audit publisher.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	QueueDepth      prometheus.Gauge
	EventsDropped   prometheus.Counter
	EventsEmitted   *prometheus.CounterVec // by category
	PersistDuration prometheus.Histogram
	PersistFailures prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "sadapurne_audit_queue_depth",
			Help: "Audit events waiting in the async buffer",
		}),
		EventsDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "sadapurne_audit_events_dropped_total",
			Help: "Audit events dropped because the async buffer was full",
		}),
		EventsEmitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sadapurne_audit_events_emitted_total",
			Help: "Audit events accepted by the publisher, by category",
		}, []string{"category"}),
		PersistDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "sadapurne_audit_persist_duration_seconds",
			Help:    "Time taken to write an audit event to its sink",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "sadapurne_audit_persist_failures_total",
			Help: "Audit events the sink rejected",
		}),
	}
}

// All helpers are safe on a nil receiver so the publisher can run uninstrumented.

func (m *Metrics) Enqueued() {
	if m != nil {
		m.QueueDepth.Inc()
	}
}

func (m *Metrics) Dequeued() {
	if m != nil {
		m.QueueDepth.Dec()
	}
}

func (m *Metrics) Dropped() {
	if m != nil {
		m.EventsDropped.Inc()
	}
}

func (m *Metrics) Emitted(category string) {
	if m != nil {
		m.EventsEmitted.WithLabelValues(category).Inc()
	}
}

// ObservePersist records one sink write and whether it failed.
func (m *Metrics) ObservePersist(start time.Time, err error) {
	if m == nil {
		return
	}
	m.PersistDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.PersistFailures.Inc()
	}
}
