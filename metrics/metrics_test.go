package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	FetchesTotal.WithLabelValues("success").Inc()
	if got := testutil.ToFloat64(FetchesTotal.WithLabelValues("success")); got < 1 {
		t.Errorf("expected counter to increment, got %v", got)
	}
}

func TestActiveChunkingJobsGauge(t *testing.T) {
	ActiveChunkingJobs.Inc()
	defer ActiveChunkingJobs.Dec()
	if got := testutil.ToFloat64(ActiveChunkingJobs); got < 1 {
		t.Errorf("expected gauge to be at least 1, got %v", got)
	}
}
