package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keyframes_runs_total",
		Help: "Total number of extraction runs, by status",
	}, []string{"status"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "keyframes_stage_duration_seconds",
		Help:    "Duration of each stage of an extraction run",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"stage"})

	FramesSampledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "keyframes_frames_sampled_total",
		Help: "Total number of sampled frames decoded and scored",
	})

	ComparisonsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "keyframes_comparisons_skipped_total",
		Help: "Total number of inconclusive comparisons",
	})

	KeyframesWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "keyframes_written_total",
		Help: "Total number of keyframes written",
	})

	MatchRatio = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "keyframes_match_ratio",
		Help:    "Normalized good-match ratio of scored comparisons",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})
)
