// Package metrics exposes Prometheus collectors for the ingestion service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	jobsIngestedTotal          *prometheus.CounterVec
	crawlCompaniesTotal        *prometheus.CounterVec
	crawlRunsTotal             prometheus.Counter
	fetchEscalationsTotal      prometheus.Counter
	connectorBatchesTotal      *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		jobsIngestedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingestor_jobs_total",
				Help: "Total jobs ingested, labeled by source and outcome (created/updated).",
			},
			[]string{"source", "outcome"},
		)

		crawlCompaniesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingestor_crawl_companies_total",
				Help: "Companies processed by crawl runs, labeled by result.",
			},
			[]string{"result"},
		)

		crawlRunsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ingestor_crawl_runs_total",
				Help: "Total orchestrator runs started.",
			},
		)

		fetchEscalationsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ingestor_fetch_escalations_total",
				Help: "Fetches escalated from the plain tier to the headless renderer.",
			},
		)

		connectorBatchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingestor_connector_batches_total",
				Help: "Aggregator connector pulls, labeled by connector and result.",
			},
			[]string{"connector", "result"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveJobIngested increments the ingest counter for a source.
func ObserveJobIngested(source string, created bool) {
	Init()
	outcome := "updated"
	if created {
		outcome = "created"
	}
	jobsIngestedTotal.WithLabelValues(source, outcome).Inc()
}

// ObserveCrawlCompany records one company's crawl result ("ok" or "error").
func ObserveCrawlCompany(result string) {
	Init()
	crawlCompaniesTotal.WithLabelValues(result).Inc()
}

// ObserveCrawlRun increments the run counter.
func ObserveCrawlRun() {
	Init()
	crawlRunsTotal.Inc()
}

// ObserveFetchEscalation increments the headless escalation counter.
func ObserveFetchEscalation() {
	Init()
	fetchEscalationsTotal.Inc()
}

// ObserveConnectorBatch records an aggregator pull ("ok", "error" or "skipped").
func ObserveConnectorBatch(connector, result string) {
	Init()
	connectorBatchesTotal.WithLabelValues(connector, result).Inc()
}

// ObserveHTTPRequest records an API request latency.
func ObserveHTTPRequest(method, route string, duration time.Duration) {
	Init()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
