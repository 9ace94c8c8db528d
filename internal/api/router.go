package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"HealthService/pkg/health"
	"HealthService/pkg/metrics"
)

const metricsPath = "/metrics"

type Router struct {
	aggregator *health.Aggregator
	registry   *health.Registry
	logger     *slog.Logger
}

func NewRouter(aggregator *health.Aggregator, registry *health.Registry, l *slog.Logger) *Router {
	return &Router{
		aggregator: aggregator,
		registry:   registry,
		logger:     l,
	}
}

func (r *Router) SetUp(engine *gin.Engine) {
	check := health.Handler(r.aggregator, r.registry, metrics.ObserveHealthReport, logDegraded(r.logger))

	engine.GET("/health", check)
	engine.HEAD("/health", check)
	engine.GET("/health/live", health.LivenessHandler())

	// Prometheus metrics
	engine.GET(metricsPath, gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
}
