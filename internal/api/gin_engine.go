package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"HealthService/pkg/logger"
	"HealthService/pkg/metrics"
)

func NewGinEngine(l *slog.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(
		logger.CorrelationMiddleware(),
		metrics.GinMiddleware(metricsPath),
		logger.RequestLogger(l),
		gin.Recovery(),
	)
	return engine
}
