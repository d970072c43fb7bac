// Package metrics exposes Prometheus collectors for rate fetches and conversions
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded by RateFetchesTotal
const (
	OutcomeOK               = "ok"
	OutcomeCacheHit         = "cache_hit"
	OutcomeUnexpectedStatus = "unexpected_status"
	OutcomeError            = "error"
)

var (
	RateFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "currency_converter_rate_fetches_total",
			Help: "Total number of remote rate fetches per base currency and outcome",
		},
		[]string{"base", "outcome"},
	)

	RateFetchDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "currency_converter_rate_fetch_duration_seconds",
			Help:    "Remote rate fetch duration in seconds per base currency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"base"},
	)

	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "currency_converter_conversions_total",
			Help: "Total number of conversions served per direction",
		},
		[]string{"direction"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "currency_converter_http_requests_total",
			Help: "Total number of HTTP requests per path and status code",
		},
		[]string{"path", "code"},
	)

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "currency_converter_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds per path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)
)

// ObserveRateFetch records one remote fetch for base
func ObserveRateFetch(base, outcome string, startedAt time.Time) {
	RateFetchesTotal.WithLabelValues(base, outcome).Inc()
	if outcome != OutcomeCacheHit {
		RateFetchDurationSeconds.WithLabelValues(base).Observe(time.Since(startedAt).Seconds())
	}
}

// ObserveHTTPRequest records one served HTTP request
func ObserveHTTPRequest(path string, code int, startedAt time.Time) {
	HTTPRequestsTotal.WithLabelValues(path, strconv.Itoa(code)).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(path).Observe(time.Since(startedAt).Seconds())
}
