// Package metrics holds the Prometheus collectors shared by the HTTP layer,
// the gateway client and the background workers.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	gatewayCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "phonepe_request_duration_seconds",
			Help:    "PhonePe API call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	paymentTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_transitions_total",
			Help: "Payment order status changes by trigger",
		},
		[]string{"trigger", "status"},
	)

	bookingsMaterializedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_materialized_total",
			Help: "Bookings created from successful payments",
		},
		[]string{"kind", "outcome"},
	)

	sweepChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_sweep_checks_total",
			Help: "Orders examined by the stale payment sweep",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(gatewayCallDuration)
	prometheus.MustRegister(paymentTransitionsTotal)
	prometheus.MustRegister(bookingsMaterializedTotal)
	prometheus.MustRegister(sweepChecksTotal)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// ObserveGatewayCall records one PhonePe call. Status 0 means the request never got a response.
func ObserveGatewayCall(operation string, status int, duration time.Duration) {
	gatewayCallDuration.WithLabelValues(operation, strconv.Itoa(status)).Observe(duration.Seconds())
}

func RecordTransition(trigger, status string) {
	paymentTransitionsTotal.WithLabelValues(trigger, status).Inc()
}

func RecordMaterialization(kind, outcome string) {
	bookingsMaterializedTotal.WithLabelValues(kind, outcome).Inc()
}

func RecordSweepCheck(result string) {
	sweepChecksTotal.WithLabelValues(result).Inc()
}
