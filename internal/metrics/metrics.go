// Package metrics holds the Prometheus collectors for the synthesis pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is a dedicated registry so tests and the /metrics handler never
// see collectors from other libraries.
var Registry = prometheus.NewRegistry()

var (
	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoflow_llm_requests_total",
			Help: "Total number of completion requests per provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	LLMDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "autoflow_llm_request_duration_seconds",
			Help:    "Duration of completion requests in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"provider"},
	)

	PipelineFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoflow_pipeline_failures_total",
			Help: "Failures in the mandatory pipeline stages by error kind",
		},
		[]string{"stage", "kind"},
	)

	RegistryFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "autoflow_registry_fallbacks_total",
			Help: "Times the capability catalog fell back to the built-in list",
		},
	)

	EnrichmentFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoflow_enrichment_failures_total",
			Help: "Documentation lookups that failed and were skipped",
		},
		[]string{"library"},
	)

	RepairSessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoflow_repair_sessions_total",
			Help: "Repair sessions by terminal outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	Registry.MustRegister(
		LLMRequests,
		LLMDuration,
		PipelineFailures,
		RegistryFallbacks,
		EnrichmentFailures,
		RepairSessions,
	)
}
