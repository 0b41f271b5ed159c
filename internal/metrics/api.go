package metrics

import "github.com/prometheus/client_golang/prometheus"

// Platform API Prometheus metrics.
var (
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "greenlake",
			Name:      "api_requests_total",
			Help:      "Total number of platform API requests",
		},
		[]string{"method", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "greenlake",
			Name:      "api_request_duration_seconds",
			Help:      "Platform API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)

	APIRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "greenlake",
			Name:      "api_retries_total",
			Help:      "Total platform API request retries",
		},
	)

	APIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "greenlake",
			Name:      "api_errors_total",
			Help:      "Total platform API errors by error code",
		},
		[]string{"code"},
	)
)

var apiMetricsRegistered bool

// RegisterAPIMetrics registers Prometheus API metrics. Must be called once from main.
func RegisterAPIMetrics() {
	if apiMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		APIRequestsTotal,
		APIRequestDuration,
		APIRetriesTotal,
		APIErrorsTotal,
	)
	apiMetricsRegistered = true
}
