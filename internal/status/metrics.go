// Package status exposes run health and Prometheus metrics over HTTP while
// the reporter runs in loop mode.
package status

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the reporting pipeline.
type Metrics struct {
	ReportsProcessedTotal prometheus.Counter
	ReportsSentTotal      *prometheus.CounterVec
	ReportsFailedTotal    *prometheus.CounterVec
	ReportsSkippedTotal   *prometheus.CounterVec
	RunDurationSeconds    prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates a registry with all pipeline metrics registered.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		ReportsProcessedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reporter_reports_processed_total",
			Help: "Total number of site report attempts",
		}),
		ReportsSentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reporter_reports_sent_total",
			Help: "Total number of reports delivered successfully",
		}, []string{"transport"}),
		ReportsFailedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reporter_reports_failed_total",
			Help: "Total number of report failures by pipeline stage",
		}, []string{"stage"}),
		ReportsSkippedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reporter_reports_skipped_total",
			Help: "Total number of sites skipped by gate decisions",
		}, []string{"reason"}),
		RunDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reporter_run_duration_seconds",
			Help:    "Wall time of one full dispatch run",
			Buckets: prometheus.DefBuckets,
		}),
		registry: reg,
	}

	reg.MustRegister(
		m.ReportsProcessedTotal,
		m.ReportsSentTotal,
		m.ReportsFailedTotal,
		m.ReportsSkippedTotal,
		m.RunDurationSeconds,
	)

	return m
}

// Registry returns the underlying registry for the metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
