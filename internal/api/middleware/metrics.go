package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockflow-ops/stockflow-backend-go/internal/core/metrics"
)

// Metrics records HTTP metrics to the Prometheus collector and feeds the
// request tracker that drives application-level alert evaluation.
func Metrics(collector metrics.Collector, tracker *metrics.RequestTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		if collector != nil {
			collector.RecordHTTPRequest(c.Request.Method, path, status, duration)
		}
		if tracker != nil {
			tracker.Record(status, duration)
		}
	}
}
