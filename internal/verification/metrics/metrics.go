// Package metrics provides Prometheus metrics for the verification pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OutcomeSuccess is the stage label used for runs that passed every stage.
const OutcomeSuccess = "none"

type Metrics struct {
	VerificationsTotal     *prometheus.CounterVec   // by status and failing stage
	VerificationDuration   prometheus.Histogram     // whole pipeline
	StageDurationSeconds   *prometheus.HistogramVec // by stage
	StoreWritesTotal       *prometheus.CounterVec   // by result (stored, failed)
	CertificateTypesTotal  *prometheus.CounterVec   // extracted certificate type
	NameMatchMethodsTotal  *prometheus.CounterVec   // exact, token_subset, none
	FormatIssuesTotal      *prometheus.CounterVec   // by field and reason
	AuditEmitFailuresTotal prometheus.Counter
}

// New registers the verification metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		VerificationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sadapurne_verifications_total",
			Help: "Verification runs by status and failing stage",
		}, []string{"status", "stage"}),

		VerificationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "sadapurne_verification_duration_seconds",
			Help:    "End-to-end duration of a verification run",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		StageDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sadapurne_verification_stage_duration_seconds",
			Help:    "Duration of each verification stage",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"stage"}),

		StoreWritesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sadapurne_producer_store_writes_total",
			Help: "Producer store writes after successful verification",
		}, []string{"result"}),

		CertificateTypesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sadapurne_certificate_types_total",
			Help: "Certificate types read from submitted documents",
		}, []string{"type"}),

		NameMatchMethodsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sadapurne_name_match_total",
			Help: "Name match decisions by method",
		}, []string{"method"}),

		FormatIssuesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sadapurne_format_issues_total",
			Help: "Format validation issues by field and reason",
		}, []string{"field", "reason"}),

		AuditEmitFailuresTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "sadapurne_audit_emit_failures_total",
			Help: "Audit events that could not be emitted",
		}),
	}
}

func (m *Metrics) RecordOutcome(status, stage string) {
	m.VerificationsTotal.WithLabelValues(status, stage).Inc()
}

func (m *Metrics) ObserveVerification(d time.Duration) {
	m.VerificationDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.StageDurationSeconds.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordStoreWrite counts a producer write by whether it was kept.
func (m *Metrics) RecordStoreWrite(stored bool) {
	result := "stored"
	if !stored {
		result = "failed"
	}
	m.StoreWritesTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordCertificateType(t string) {
	m.CertificateTypesTotal.WithLabelValues(t).Inc()
}

func (m *Metrics) RecordNameMatch(method string) {
	m.NameMatchMethodsTotal.WithLabelValues(method).Inc()
}

func (m *Metrics) RecordFormatIssue(field, reason string) {
	m.FormatIssuesTotal.WithLabelValues(field, reason).Inc()
}

func (m *Metrics) IncrementAuditFailures() {
	m.AuditEmitFailuresTotal.Inc()
}
