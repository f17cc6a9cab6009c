// Package metrics provides Prometheus collectors for the AI client, the
// analysis pipeline and the web server:
//   - ai_requests_total / ai_request_duration_seconds: outbound AI calls by operation
//   - analyses_total: finished analyses by outcome
//   - http_request_total, http_request_duration_seconds, http_request_in_flight
//
// All collectors are registered with the default registry on package init.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OperationAnalyze = "analyze"
	OperationImage   = "image"

	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total AI service requests",
		},
		[]string{"operation", "outcome"},
	)

	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI service request latency",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"operation"},
	)

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyses_total",
			Help: "Finished medication analyses",
		},
		[]string{"outcome"},
	)

	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBuckets = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Number of per-client rate limiter buckets",
		},
	)
)

func init() {
	prometheus.MustRegister(AIRequestsTotal)
	prometheus.MustRegister(AIRequestDuration)
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBuckets)
}

// ObserveAIRequest records one outbound call started at start.
func ObserveAIRequest(operation string, start time.Time, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	AIRequestsTotal.WithLabelValues(operation, outcome).Inc()
	AIRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveAnalysis records a finished analysis.
func ObserveAnalysis(err error) {
	if err != nil {
		AnalysesTotal.WithLabelValues(OutcomeError).Inc()
		return
	}
	AnalysesTotal.WithLabelValues(OutcomeSuccess).Inc()
}
