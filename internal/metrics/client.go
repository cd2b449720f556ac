package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backend and quota Prometheus metrics.
var (
	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seoscribe",
			Name:      "backend_requests_total",
			Help:      "Total number of requests sent to the content backend",
		},
		[]string{"endpoint", "status"},
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "seoscribe",
			Name:      "backend_request_duration_seconds",
			Help:      "Content backend request duration in seconds",
			// Article generation routinely takes tens of seconds.
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"endpoint"},
	)

	QuotaRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "seoscribe",
			Name:      "quota_remaining",
			Help:      "Remaining quota as mirrored from the backend",
		},
		[]string{"period"}, // "day" / "month" / "tools"
	)

	QuotaRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seoscribe",
			Name:      "quota_refresh_total",
			Help:      "Profile refresh attempts by outcome",
		},
		[]string{"result"}, // "ok" / "error"
	)
)

var clientMetricsRegistered bool

// RegisterClientMetrics registers backend and quota metrics. Must be called once from main.
func RegisterClientMetrics() {
	if clientMetricsRegistered {
		return
	}
	prometheus.MustRegister(BackendRequestsTotal)
	prometheus.MustRegister(BackendRequestDuration)
	prometheus.MustRegister(QuotaRemaining)
	prometheus.MustRegister(QuotaRefreshTotal)
	clientMetricsRegistered = true
}
