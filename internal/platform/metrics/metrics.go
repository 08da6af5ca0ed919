package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transaction_service_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "transaction_service_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	purchaseOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transaction_service_purchase_operations_total",
		Help: "Count of purchase operations by operation and result",
	}, []string{"operation", "result"})

	reconciliationDivergences = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transaction_service_reconciliation_divergences_total",
		Help: "Count of completed transactions whose property projection could not be updated",
	})

	staleReservationsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transaction_service_stale_reservations_cancelled_total",
		Help: "Count of abandoned pending purchases cancelled by the reservation sweeper",
	})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObservePurchase increments the purchase operation counter for the given
// operation ("initiate", "complete", "cancel") and result.
func ObservePurchase(operation, result string) {
	purchaseOperations.WithLabelValues(operation, result).Inc()
}

// ObserveDivergence counts a reconciliation divergence.
func ObserveDivergence() {
	reconciliationDivergences.Inc()
}

// ObserveStaleReservationCancelled counts a sweeper-driven cancellation.
func ObserveStaleReservationCancelled() {
	staleReservationsCancelled.Inc()
}
