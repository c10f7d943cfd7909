// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Business metrics track the ingestion pipeline
var (
	// ArticlesTotal tracks total number of articles in database
	ArticlesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "articles_total",
			Help: "Total number of articles in the database",
		},
	)

	// EntriesFetchedTotal counts feed entries seen per source
	EntriesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_entries_fetched_total",
			Help: "Total number of feed entries fetched from sources",
		},
		[]string{"source"},
	)

	// ArticlesInsertedTotal counts newly persisted articles per source
	ArticlesInsertedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_articles_inserted_total",
			Help: "Total number of new articles persisted",
		},
		[]string{"source"},
	)

	// ArticlesDuplicatedTotal counts entries skipped as duplicates per source
	ArticlesDuplicatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_articles_duplicated_total",
			Help: "Total number of feed entries skipped as duplicates",
		},
		[]string{"source"},
	)

	// SourceIngestDuration measures time to ingest one source
	SourceIngestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_source_duration_seconds",
			Help:    "Time taken to ingest a single source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"source"},
	)

	// IngestErrors counts errors during ingestion by type
	IngestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_errors_total",
			Help: "Total number of ingestion errors",
		},
		[]string{"source", "error_type"},
	)

	// IngestRunsSkipped counts triggers rejected because a run was already active
	IngestRunsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_runs_skipped_total",
			Help: "Total number of ingestion triggers skipped due to an active run",
		},
	)

	// EnrichmentAttemptsTotal counts article page fetch attempts by result
	EnrichmentAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_attempts_total",
			Help: "Total number of article page enrichment attempts",
		},
		[]string{"status"},
	)

	// EnrichmentDuration measures time to fetch and extract one article page
	EnrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_duration_seconds",
			Help:    "Time taken to fetch and extract an article page",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)
)
