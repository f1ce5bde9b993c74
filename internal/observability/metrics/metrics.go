package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "dominion_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	runTotal   *prometheus.CounterVec
	runLatency *prometheus.HistogramVec

	fetchTotal   *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec

	readingsProcessed prometheus.Counter
	readingsDropped   prometheus.Counter
	daysTrimmed       prometheus.Counter

	pointsMerged prometheus.Counter

	reportExportTotal   *prometheus.CounterVec
	reportExportLatency *prometheus.HistogramVec

	lastRunTimestamp prometheus.Gauge
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		runTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "pipeline_runs_total",
				Help: "Total pipeline runs by result",
			},
			[]string{"result"},
		)
		runLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "pipeline_run_latency_seconds",
				Help:    "Pipeline run latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		fetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "fetch_total",
				Help: "Total usage export downloads by result",
			},
			[]string{"result"},
		)
		fetchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "fetch_latency_seconds",
				Help:    "Usage export download latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		readingsProcessed = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "readings_processed_total",
				Help: "Total half-hour readings processed",
			},
		)
		readingsDropped = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "readings_dropped_total",
				Help: "Total readings dropped at spring-forward gaps",
			},
		)
		daysTrimmed = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "days_trimmed_total",
				Help: "Total incomplete trailing days trimmed from exports",
			},
		)

		pointsMerged = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "statistic_points_merged_total",
				Help: "Total statistic points written to the cumulative store",
			},
		)

		reportExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		reportExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		lastRunTimestamp = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "last_successful_run_timestamp_seconds",
				Help: "Unix timestamp of the last successful pipeline run",
			},
		)

		prometheus.MustRegister(
			runTotal,
			runLatency,
			fetchTotal,
			fetchLatency,
			readingsProcessed,
			readingsDropped,
			daysTrimmed,
			pointsMerged,
			reportExportTotal,
			reportExportLatency,
			lastRunTimestamp,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveRun records pipeline run duration and result.
func ObserveRun(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if runTotal != nil {
		runTotal.WithLabelValues(result).Inc()
	}
	if runLatency != nil {
		runLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
	if result == resultSuccess && lastRunTimestamp != nil {
		lastRunTimestamp.SetToCurrentTime()
	}
}

// ObserveFetch records download duration and result.
func ObserveFetch(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if fetchTotal != nil {
		fetchTotal.WithLabelValues(result).Inc()
	}
	if fetchLatency != nil {
		fetchLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddReadingsProcessed increments the processed reading counter by count.
func AddReadingsProcessed(count int) {
	if count <= 0 {
		return
	}
	if readingsProcessed != nil {
		readingsProcessed.Add(float64(count))
	}
}

// AddReadingsDropped increments the dropped reading counter by count.
func AddReadingsDropped(count int) {
	if count <= 0 {
		return
	}
	if readingsDropped != nil {
		readingsDropped.Add(float64(count))
	}
}

// IncDayTrimmed increments the trimmed day counter.
func IncDayTrimmed() {
	if daysTrimmed != nil {
		daysTrimmed.Inc()
	}
}

// AddPointsMerged increments the merged point counter by count.
func AddPointsMerged(count int) {
	if count <= 0 {
		return
	}
	if pointsMerged != nil {
		pointsMerged.Add(float64(count))
	}
}

// ObserveReportExport records export latency and result.
func ObserveReportExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if reportExportTotal != nil {
		reportExportTotal.WithLabelValues(format, result).Inc()
	}
	if reportExportLatency != nil {
		reportExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
