package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sawari_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sawari_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	bookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sawari_bookings_total",
			Help: "Booking attempts by outcome.",
		},
		[]string{"outcome"},
	)

	cancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sawari_cancellations_total",
			Help: "Cancellation attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

// RecordBooking counts a booking attempt. Outcome is "success" or the
// short reason for failure.
func RecordBooking(outcome string) {
	bookingsTotal.WithLabelValues(outcome).Inc()
}

// RecordCancellation counts a cancellation attempt.
func RecordCancellation(outcome string) {
	cancellationsTotal.WithLabelValues(outcome).Inc()
}

// Middleware observes request counts and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(
			c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
