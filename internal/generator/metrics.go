package generator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kwallo",
			Name:      "generations_total",
			Help:      "Total content generation attempts",
		},
		[]string{"generator", "status"}, // status: "ok", "error", "rejected"
	)

	llmCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kwallo",
			Name:      "llm_calls_total",
			Help:      "Total LLM API calls",
		},
		[]string{"provider", "status"},
	)

	llmDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kwallo",
			Name:      "llm_duration_seconds",
			Help:      "Duration of LLM API calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		},
		[]string{"provider"},
	)

	promptLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "kwallo",
			Name:      "prompt_length_chars",
			Help:      "Length of composed prompts in characters",
			Buckets:   prometheus.ExponentialBuckets(500, 2, 8),
		},
	)
)
