package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GinMiddleware returns Gin middleware that records HTTP metrics.
// Paths in skip (matched against the route template) are not recorded.
func GinMiddleware(skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		handler := c.FullPath()
		if _, ok := skipped[handler]; ok {
			return
		}
		if handler == "" {
			handler = "unmatched"
		}

		status := strconv.Itoa(c.Writer.Status())
		HTTPRequestDuration.WithLabelValues(handler, c.Request.Method, status).Observe(time.Since(start).Seconds())
		HTTPRequestsTotal.WithLabelValues(handler, c.Request.Method, status).Inc()
	}
}
