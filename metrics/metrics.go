// Package metrics holds the Prometheus collectors of the assistant.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "assist"

// Pipeline metrics.
var (
	StageOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_outcomes_total",
			Help:      "Pipeline stage outcomes by strategy",
		},
		[]string{"stage", "outcome"}, // outcome: strategy name, "skipped" or "failed"
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"stage"},
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Total number of language model requests",
		},
		[]string{"provider", "model", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Language model request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 6, 8, 10},
		},
		[]string{"provider", "model"},
	)

	LLMErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_errors_total",
			Help:      "Total language model errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	FetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "site_fetches_total",
			Help:      "Outbound fetches against the municipal site",
		},
		[]string{"kind", "status"}, // kind: "search" / "scrape"
	)
)

func init() {
	prometheus.MustRegister(
		StageOutcomesTotal,
		StageDuration,
		LLMRequestsTotal,
		LLMRequestDuration,
		LLMErrorsTotal,
		FetchesTotal,
	)
}
