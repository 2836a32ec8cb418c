package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordInserted_AddsPerSource(t *testing.T) {
	t.Parallel()

	before := testutil.ToFloat64(activitiesInserted.WithLabelValues("github"))
	RecordInserted("github", 3)
	RecordInserted("github", 0)  // no-op
	RecordInserted("github", -1) // no-op
	after := testutil.ToFloat64(activitiesInserted.WithLabelValues("github"))

	if got := after - before; got != 3 {
		t.Fatalf("inserted delta = %v, want 3", got)
	}
}

func TestRecordIgnoredAndRejected(t *testing.T) {
	t.Parallel()

	beforeIgn := testutil.ToFloat64(activitiesIgnored.WithLabelValues("slack"))
	beforeRej := testutil.ToFloat64(recordsRejected.WithLabelValues("slack"))

	RecordIgnored("slack", 2)
	RecordRejected("slack")

	if got := testutil.ToFloat64(activitiesIgnored.WithLabelValues("slack")) - beforeIgn; got != 2 {
		t.Fatalf("ignored delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(recordsRejected.WithLabelValues("slack")) - beforeRej; got != 1 {
		t.Fatalf("rejected delta = %v, want 1", got)
	}
}

func TestRecordUnresolved(t *testing.T) {
	t.Parallel()

	before := testutil.ToFloat64(identitiesUnresolved.WithLabelValues("notion"))
	RecordUnresolved("notion")
	RecordUnresolved("notion")
	if got := testutil.ToFloat64(identitiesUnresolved.WithLabelValues("notion")) - before; got != 2 {
		t.Fatalf("unresolved delta = %v, want 2", got)
	}
}

func TestRecordArchived(t *testing.T) {
	t.Parallel()

	beforeRows := testutil.ToFloat64(archiveRows)
	beforeErrs := testutil.ToFloat64(archiveErrors)

	RecordArchived(5)
	RecordArchived(0)
	RecordArchiveError()

	if got := testutil.ToFloat64(archiveRows) - beforeRows; got != 5 {
		t.Fatalf("archive rows delta = %v, want 5", got)
	}
	if got := testutil.ToFloat64(archiveErrors) - beforeErrs; got != 1 {
		t.Fatalf("archive errors delta = %v, want 1", got)
	}
}

func TestRecordRun_ObservesDuration(t *testing.T) {
	t.Parallel()

	beforeRuns := testutil.ToFloat64(collectRuns.WithLabelValues("completed"))
	beforeSamples := histogramSampleCount(t)

	RecordRun("completed", 250*time.Millisecond)

	if got := testutil.ToFloat64(collectRuns.WithLabelValues("completed")) - beforeRuns; got != 1 {
		t.Fatalf("runs delta = %v, want 1", got)
	}
	if after := histogramSampleCount(t); after != beforeSamples+1 {
		t.Fatalf("histogram samples = %d, want %d", after, beforeSamples+1)
	}
}

func TestRecordSourceSuccess_IgnoresZeroTime(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 11, 7, 9, 0, 0, 0, time.UTC)
	RecordSourceSuccess("drive", ts)
	if got := testutil.ToFloat64(lastCollectGauge.WithLabelValues("drive")); got != float64(ts.Unix()) {
		t.Fatalf("gauge = %v, want %v", got, float64(ts.Unix()))
	}

	RecordSourceSuccess("drive", time.Time{})
	if got := testutil.ToFloat64(lastCollectGauge.WithLabelValues("drive")); got != float64(ts.Unix()) {
		t.Fatalf("gauge after zero ts = %v, want unchanged %v", got, float64(ts.Unix()))
	}
}

func histogramSampleCount(t *testing.T) uint64 {
	t.Helper()

	metric := &dto.Metric{}
	if err := collectDuration.Write(metric); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	hist := metric.GetHistogram()
	if hist == nil {
		t.Fatal("histogram metric missing")
	}
	return hist.GetSampleCount()
}
