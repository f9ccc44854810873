package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by the per-client rate limit.",
		},
		[]string{"path"},
	)

	AccountOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_operations_total",
			Help: "Total number of account operations by outcome.",
		},
		[]string{"operation", "result"},
	)

	ClubRecordOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "club_record_operations_total",
			Help: "Total number of club record operations by outcome.",
		},
		[]string{"operation", "result"},
	)

	ResetTokensSweptTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "account_reset_tokens_swept_total",
			Help: "Total number of expired password reset windows closed by the sweeper.",
		},
	)
)

// MustRegister registers every collector with reg. Call it once per process.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		HTTPRateLimitedTotal,
		AccountOperationsTotal,
		ClubRecordOperationsTotal,
		ResetTokensSweptTotal,
	)
}

// Result maps an operation error to a metric label.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
