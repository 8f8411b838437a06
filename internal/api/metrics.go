package api

import (
	"net/http"
	"time"

	"github.com/Veraticus/scamguard/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. Each server owns its own
// registry.
type Metrics struct {
	registry         *prometheus.Registry
	analysesTotal    *prometheus.CounterVec
	rejectedTotal    *prometheus.CounterVec
	reloadsTotal     *prometheus.CounterVec
	findingsTotal    *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	modelLoaded      prometheus.Gauge
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scamguard_analyses_total",
				Help: "Total number of analyzed messages by risk level",
			},
			[]string{"risk_level"},
		),
		rejectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scamguard_requests_rejected_total",
				Help: "Total number of rejected analysis requests by reason",
			},
			[]string{"reason"},
		),
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scamguard_model_reloads_total",
				Help: "Total number of model reload attempts by outcome",
			},
			[]string{"status"},
		),
		findingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scamguard_findings_total",
				Help: "Total number of pattern findings by rule",
			},
			[]string{"rule"},
		),
		analysisDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scamguard_analysis_duration_seconds",
				Help:    "Time spent analyzing a message",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),
		modelLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "scamguard_model_loaded",
				Help: "Whether a classifier model is loaded (1) or not (0)",
			},
		),
	}

	m.registry.MustRegister(
		m.analysesTotal,
		m.rejectedTotal,
		m.reloadsTotal,
		m.findingsTotal,
		m.analysisDuration,
		m.modelLoaded,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(
		m.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			Registry:          m.registry,
		},
	)
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordAnalysis records a completed analysis.
func (m *Metrics) RecordAnalysis(report *model.AnalysisReport, elapsed time.Duration) {
	m.analysesTotal.WithLabelValues(string(report.Level)).Inc()
	m.analysisDuration.Observe(elapsed.Seconds())
	for _, f := range report.Findings {
		m.findingsTotal.WithLabelValues(f.Rule).Inc()
	}
}

// RecordRejected records a rejected request.
func (m *Metrics) RecordRejected(reason string) {
	m.rejectedTotal.WithLabelValues(reason).Inc()
}

// RecordReload records a model reload attempt.
func (m *Metrics) RecordReload(ok bool) {
	status := "success"
	if !ok {
		status = "failure"
	}
	m.reloadsTotal.WithLabelValues(status).Inc()
}

// SetModelLoaded updates the model gauge.
func (m *Metrics) SetModelLoaded(loaded bool) {
	if loaded {
		m.modelLoaded.Set(1)
		return
	}
	m.modelLoaded.Set(0)
}
