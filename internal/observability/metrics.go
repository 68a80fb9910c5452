package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_requests_total",
			Help: "Pipeline requests by route and envelope status",
		},
		[]string{"route", "status"},
	)

	FailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_failures_total",
			Help: "Failure envelopes by route and error kind",
		},
		[]string{"route", "kind"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "generation_request_duration_seconds",
			Help:    "End-to-end pipeline duration",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"route"},
	)

	PromptFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prompt_registry_fallbacks_total",
			Help: "Prompt resolutions that fell back to the built-in defaults",
		},
	)

	TrackingFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_fallbacks_total",
			Help: "Generations re-run without a tracked run, by stage of the tracking failure",
		},
		[]string{"stage"},
	)
)
