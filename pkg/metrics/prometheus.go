package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	reconciliations *prometheus.CounterVec
	anomalies       *prometheus.CounterVec
	storeErrors     *prometheus.CounterVec
	recordsIngested *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		reconciliations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconflow_reconciliations_total",
				Help: "Total number of reconciliation runs by resulting status",
			},
			[]string{"status"},
		),
		anomalies: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconflow_anomalies_total",
				Help: "Total number of anomalies detected",
			},
			[]string{"code", "severity"},
		),
		storeErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconflow_store_errors_total",
				Help: "Total number of record store failures",
			},
			[]string{"store"},
		),
		recordsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconflow_records_ingested_total",
				Help: "Total number of records ingested by stage",
			},
			[]string{"stage"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reconflow_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordReconciliation records a finished reconciliation run.
func (r *Recorder) RecordReconciliation(status string) {
	r.reconciliations.WithLabelValues(status).Inc()
}

// RecordAnomaly records a detected anomaly.
func (r *Recorder) RecordAnomaly(code, severity string) {
	r.anomalies.WithLabelValues(code, severity).Inc()
}

// RecordStoreError records a record store failure.
func (r *Recorder) RecordStoreError(store string) {
	r.storeErrors.WithLabelValues(store).Inc()
}

// RecordRecordsIngested records records written into a stage store.
func (r *Recorder) RecordRecordsIngested(stage string, n int) {
	r.recordsIngested.WithLabelValues(stage).Add(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
