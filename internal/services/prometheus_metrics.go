package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	emailsProcessed   prometheus.Counter
	extractionsFailed prometheus.Counter
	syncRuns          *prometheus.CounterVec
	syncDuration      prometheus.Histogram
	rateLookups       *prometheus.CounterVec
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		emailsProcessed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sync_emails_processed_total",
				Help: "Total number of bank emails processed by the sync pipeline",
			},
		),
		extractionsFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sync_extractions_failed_total",
				Help: "Total number of failed extraction calls",
			},
		),
		syncRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sync_runs_total",
				Help: "Total number of per-owner sync runs by trigger",
			},
			[]string{"trigger"},
		),
		syncDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sync_run_duration_seconds",
				Help:    "Per-owner sync run duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),
		rateLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_rate_lookups_total",
				Help: "Total number of exchange rate lookups by source",
			},
			[]string{"source"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "sync.email.processed":
		m.emailsProcessed.Inc()
	case "sync.extraction.failed":
		m.extractionsFailed.Inc()
	case "sync.run":
		trigger := tags["trigger"]
		if trigger == "" {
			trigger = "scheduled"
		}
		m.syncRuns.WithLabelValues(trigger).Inc()
	case "exchange_rate.lookup":
		if source := tags["source"]; source != "" {
			m.rateLookups.WithLabelValues(source).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "sync.run":
		m.syncDuration.Observe(duration.Seconds())
	}
}
