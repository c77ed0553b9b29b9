package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	LexDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "esmlex_lex_seconds",
		Help:    "Time spent parsing and lexing a single source file.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"language"})

	FilesLexedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "esmlex_files_lexed_total",
		Help: "Total number of files processed, by language and outcome.",
	}, []string{"language", "outcome"})

	RecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "esmlex_records_total",
		Help: "Total number of module records extracted, by kind.",
	}, []string{"kind"})

	ParsersLeased = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "esmlex_parsers_leased",
		Help: "Tree-sitter parsers currently checked out of the pool, by language.",
	}, []string{"language"})

	BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "esmlex_batch_files",
		Help:    "Number of files per batch request.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "esmlex_cache_lookups_total",
		Help: "Result cache lookups, by result (memory, hit or miss).",
	}, []string{"result"})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "esmlex_scan_seconds",
		Help:    "Time spent on a full directory scan.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esmlex_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "esmlex_http_requests_total",
		Help: "HTTP API requests, by route and status code.",
	}, []string{"route", "code"})

	HTTPRateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esmlex_http_rate_limited_total",
		Help: "HTTP API requests rejected by the per-client rate limiter.",
	})
)

// Outcome label values.
const (
	OutcomeOK          = "ok"
	OutcomeSyntaxError = "syntax_error"
	OutcomeError       = "error"
)
