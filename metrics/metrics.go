// Package metrics exposes Prometheus counters and histograms for the
// fetch, chunking, and AI phases, served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ragforge_fetches_total",
		Help: "Total page fetch attempts, labeled by outcome.",
	}, []string{"outcome"})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ragforge_fetch_duration_seconds",
		Help:    "Page fetch latency in seconds.",
		Buckets: prometheus.DefBuckets,
	})

	ChunksGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ragforge_chunks_generated_total",
		Help: "Chunks produced, labeled by chunk_type.",
	}, []string{"chunk_type"})

	ChunkingJobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ragforge_chunking_job_duration_seconds",
		Help:    "Wall-clock time for a project's chunking job, start to terminal event.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	})

	DeduplicationRatio = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ragforge_deduplication_ratio",
		Help:    "Fraction of chunks marked duplicate per chunking job.",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})

	AIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ragforge_ai_requests_total",
		Help: "AI provider calls, labeled by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	ActiveChunkingJobs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ragforge_active_chunking_jobs",
		Help: "Number of chunking jobs currently running across all projects.",
	})
)
