package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	ratingRequestsTotal  *prometheus.CounterVec
	ratingLatencySeconds *prometheus.HistogramVec
	ratingErrorsTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors for the rating API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		ratingRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rater_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		ratingLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rater_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		}, []string{"method", "route"})

		ratingErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rater_errors_total",
			Help: "Total number of error responses.",
		}, []string{"method", "route", "status"})

		prometheus.MustRegister(ratingRequestsTotal, ratingLatencySeconds, ratingErrorsTotal)
	})
}

// Requests returns the request counter collector.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return ratingRequestsTotal
}

// Latency returns the latency histogram collector.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return ratingLatencySeconds
}

// Errors returns the error counter collector.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return ratingErrorsTotal
}
