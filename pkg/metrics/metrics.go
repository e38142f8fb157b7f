package metrics

import (
	"database/sql"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	metricPrefix = "energy_"

	ResultSuccess = "success"
	ResultPartial = "partial"
	ResultError   = "error"

	PathUpsert  = "upsert"
	PathInsert  = "insert"
	PathSkipped = "skipped"
)

var (
	registerOnce sync.Once

	ingestRows    *prometheus.CounterVec
	ingestBatches *prometheus.CounterVec

	reportRenders *prometheus.CounterVec
	reportLatency *prometheus.HistogramVec

	reportCacheLookups *prometheus.CounterVec
)

// Init registers the service metrics on the default registry. db may be nil.
func Init(db *sql.DB) {
	registerOnce.Do(func() {
		ingestRows = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ingest_rows_total",
				Help: "Ingested entries by kind and write path",
			},
			[]string{"kind", "path"},
		)
		ingestBatches = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ingest_batches_total",
				Help: "Ingest batches by kind and result",
			},
			[]string{"kind", "result"},
		)
		reportRenders = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_renders_total",
				Help: "Report renders by format and result",
			},
			[]string{"format", "result"},
		)
		reportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_latency_seconds",
				Help:    "Report query and render latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		)
		reportCacheLookups = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_cache_lookups_total",
				Help: "Report cache lookups by outcome",
			},
			[]string{"outcome"},
		)

		prometheus.MustRegister(
			ingestRows,
			ingestBatches,
			reportRenders,
			reportLatency,
			reportCacheLookups,
		)
		if db != nil {
			prometheus.MustRegister(collectors.NewDBStatsCollector(db, "energy"))
		}
	})
}

// IncIngestRow counts one entry of a batch by the path it took.
func IncIngestRow(kind, path string) {
	if ingestRows != nil {
		ingestRows.WithLabelValues(kind, path).Inc()
	}
}

// AddIngestRows counts n entries of a bulk import that took the same path.
func AddIngestRows(kind, path string, n int) {
	if ingestRows != nil && n > 0 {
		ingestRows.WithLabelValues(kind, path).Add(float64(n))
	}
}

func IncIngestBatch(kind, result string) {
	if result == "" {
		result = ResultSuccess
	}
	if ingestBatches != nil {
		ingestBatches.WithLabelValues(kind, result).Inc()
	}
}

// ObserveReport records a report render and how long it took.
func ObserveReport(format, result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if reportRenders != nil {
		reportRenders.WithLabelValues(format, result).Inc()
	}
	if reportLatency != nil {
		reportLatency.WithLabelValues(format).Observe(duration.Seconds())
	}
}

func IncReportCache(hit bool) {
	if reportCacheLookups == nil {
		return
	}
	if hit {
		reportCacheLookups.WithLabelValues("hit").Inc()
	} else {
		reportCacheLookups.WithLabelValues("miss").Inc()
	}
}
