// Package metrics exposes the process-wide Prometheus instruments.
//
// Instruments are registered once at init and written through small
// Record helpers so callers never touch label plumbing directly.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	activitiesInserted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teampulse",
		Subsystem: "ingest",
		Name:      "activities_inserted_total",
		Help:      "Number of activity rows newly inserted, labeled by source.",
	}, []string{"source"})

	activitiesIgnored = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teampulse",
		Subsystem: "ingest",
		Name:      "activities_ignored_total",
		Help:      "Number of activity rows skipped as duplicates, labeled by source.",
	}, []string{"source"})

	recordsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teampulse",
		Subsystem: "ingest",
		Name:      "records_rejected_total",
		Help:      "Number of raw records dropped before insert, labeled by source.",
	}, []string{"source"})

	identitiesUnresolved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teampulse",
		Subsystem: "ingest",
		Name:      "identities_unresolved_total",
		Help:      "Number of records whose native identity matched no member, labeled by source.",
	}, []string{"source"})

	archiveRows = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "teampulse",
		Subsystem: "archive",
		Name:      "rows_written_total",
		Help:      "Number of activity rows mirrored into the ClickHouse archive.",
	})

	archiveErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "teampulse",
		Subsystem: "archive",
		Name:      "errors_total",
		Help:      "Number of archive writes that failed and were skipped.",
	})

	collectRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teampulse",
		Subsystem: "collect",
		Name:      "runs_total",
		Help:      "Number of collection runs, labeled by terminal status.",
	}, []string{"status"})

	collectDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "teampulse",
		Subsystem: "collect",
		Name:      "run_duration_seconds",
		Help:      "Wall time of a full collection run across all sources.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	graphBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "teampulse",
		Subsystem: "graph",
		Name:      "build_duration_seconds",
		Help:      "Time spent scoring one collaboration graph window.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	})

	lastCollectGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "teampulse",
		Subsystem: "collect",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful run per source.",
	}, []string{"source"})
)

func init() {
	prometheus.MustRegister(
		activitiesInserted,
		activitiesIgnored,
		recordsRejected,
		identitiesUnresolved,
		archiveRows,
		archiveErrors,
		collectRuns,
		collectDuration,
		graphBuildDuration,
		lastCollectGauge,
	)
}

// RecordInserted adds n newly inserted activity rows for source.
func RecordInserted(source string, n int) {
	if n <= 0 {
		return
	}
	activitiesInserted.WithLabelValues(source).Add(float64(n))
}

// RecordIgnored adds n duplicate activity rows for source.
func RecordIgnored(source string, n int) {
	if n <= 0 {
		return
	}
	activitiesIgnored.WithLabelValues(source).Add(float64(n))
}

// RecordRejected counts one raw record dropped before insert.
func RecordRejected(source string) {
	recordsRejected.WithLabelValues(source).Inc()
}

// RecordUnresolved counts one record whose identity matched no member.
func RecordUnresolved(source string) {
	identitiesUnresolved.WithLabelValues(source).Inc()
}

// RecordArchived adds n rows mirrored into the archive.
func RecordArchived(n int) {
	if n <= 0 {
		return
	}
	archiveRows.Add(float64(n))
}

// RecordArchiveError counts one failed archive write.
func RecordArchiveError() {
	archiveErrors.Inc()
}

// RecordRun counts one finished collection run and observes its duration.
func RecordRun(status string, dur time.Duration) {
	collectRuns.WithLabelValues(status).Inc()
	if dur > 0 {
		collectDuration.Observe(dur.Seconds())
	}
}

// RecordSourceSuccess stamps the last successful run time for source.
func RecordSourceSuccess(source string, ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastCollectGauge.WithLabelValues(source).Set(float64(ts.Unix()))
}

// ObserveGraphBuild observes the wall time of one graph scoring pass.
func ObserveGraphBuild(dur time.Duration) {
	if dur > 0 {
		graphBuildDuration.Observe(dur.Seconds())
	}
}
