// Package metrics provides Prometheus metrics for the producer store.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	LookupsTotal             *prometheus.CounterVec   // FindByAadhar by result (hit, miss)
	OperationDurationSeconds *prometheus.HistogramVec // by backend and operation
	CircuitOpen              prometheus.Gauge         // 1 while the store circuit is open
	CircuitTransitionsTotal  *prometheus.CounterVec   // by new state
	FallbackReadsTotal       prometheus.Counter       // reads served from the last-known cache
	ExportsTotal             prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LookupsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sadapurne_producer_lookups_total",
			Help: "Producer lookups by Aadhar, by result",
		}, []string{"result"}),

		OperationDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sadapurne_producer_store_operation_duration_seconds",
			Help:    "Duration of producer store operations",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1},
		}, []string{"backend", "operation"}),

		CircuitOpen: f.NewGauge(prometheus.GaugeOpts{
			Name: "sadapurne_producer_store_circuit_open",
			Help: "Whether the producer store circuit breaker is open",
		}),

		CircuitTransitionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sadapurne_producer_store_circuit_transitions_total",
			Help: "Producer store circuit breaker transitions by new state",
		}, []string{"state"}),

		FallbackReadsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "sadapurne_producer_store_fallback_reads_total",
			Help: "Producer reads served from the last-known cache while the store failed",
		}),

		ExportsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "sadapurne_producer_exports_total",
			Help: "Spreadsheet exports of verified producers",
		}),
	}
}

func (m *Metrics) RecordLookup(hit bool) {
	result := "hit"
	if !hit {
		result = "miss"
	}
	m.LookupsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveOperation(backend, op string, start time.Time) {
	m.OperationDurationSeconds.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) CircuitOpened() {
	m.CircuitOpen.Set(1)
	m.CircuitTransitionsTotal.WithLabelValues("open").Inc()
}

func (m *Metrics) CircuitClosed() {
	m.CircuitOpen.Set(0)
	m.CircuitTransitionsTotal.WithLabelValues("closed").Inc()
}

func (m *Metrics) IncrementFallbackReads() {
	m.FallbackReadsTotal.Inc()
}

func (m *Metrics) IncrementExports() {
	m.ExportsTotal.Inc()
}
