package health

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReportHook observes every report produced by Handler, e.g. for metrics
// or logging. Hooks must not modify the report.
type ReportHook func(ctx context.Context, report Report)

// LivenessHandler returns a handler for liveness probes.
// Always returns 200 OK if the process is running.
func LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": payloadStatusOk})
	}
}

// Handler runs a check on every request and answers with the mapped status
// code and payload. HEAD requests get the status code only.
func Handler(aggregator *Aggregator, registry *Registry, hooks ...ReportHook) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		report := aggregator.Check(ctx, registry)

		for _, hook := range hooks {
			hook(ctx, report)
		}

		status, payload := ToResponse(report)
		if c.Request.Method == http.MethodHead {
			c.Status(status)
			return
		}
		c.JSON(status, payload)
	}
}
