package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "freshcart",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route, and status code",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "freshcart",
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request duration in ms by method and route",
			Buckets:   []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600},
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware records per-route request counts and latency. The path
// label is the route template, so /v1/orders/:id stays one series no matter
// how many order ids pass through it.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := float64(time.Since(start).Milliseconds())
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		httpRequests.WithLabelValues(c.Request.Method, path,
			strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}
