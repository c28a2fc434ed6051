package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kiosk_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "path", "status"},
	)

	ordersSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosk_orders_submitted_total",
			Help: "Total number of order submissions",
		},
		[]string{"status"},
	)

	orderUnits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosk_order_units_total",
			Help: "Units seen while totalizing submitted orders",
		},
		[]string{"kind"},
	)

	savedCarts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosk_saved_cart_operations_total",
			Help: "Total number of saved cart operations",
		},
		[]string{"operation", "status"},
	)
)

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// Middleware records request count and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// RecordSubmission counts an order submission. charged, covered and skipped
// are unit counts of the submitted order.
func RecordSubmission(success bool, charged, covered, skipped int) {
	ordersSubmitted.WithLabelValues(statusLabel(success)).Inc()
	if !success {
		return
	}
	orderUnits.WithLabelValues("charged").Add(float64(charged))
	orderUnits.WithLabelValues("covered").Add(float64(covered))
	orderUnits.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordSavedCart counts a save, restore or delete of a saved cart.
func RecordSavedCart(operation string, success bool) {
	savedCarts.WithLabelValues(operation, statusLabel(success)).Inc()
}
