package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/e2ecommerce/server/internal/utils/metrics"
)

// Metrics records request counts, latency and in-flight gauge per route.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()

		c.Next()

		m.HTTPRequestsInFlight.Dec()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
