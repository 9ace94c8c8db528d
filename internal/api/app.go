package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opensearch-project/opensearch-go"

	"HealthService/config"
	"HealthService/pkg/health"
	"HealthService/pkg/logger"
	"HealthService/pkg/postgres"
	"HealthService/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func Run(cfg config.Config) error {
	l := logger.Setup(logger.Options{Level: cfg.LogLevel, Console: cfg.LogFormat == "console"})

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(cfg.PgPoolMax))
	if err != nil {
		return fmt.Errorf("api - Run - postgres.New: %w", err)
	}
	defer pool.Close()

	cache, err := redis.NewClient(redis.Config{
		Address:  cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("api - Run - redis.NewClient: %w", err)
	}
	defer cache.Close()

	deps := Dependencies{Postgres: pool, Cache: cache}
	if len(cfg.OpensearchUrls) > 0 {
		deps.Search, err = opensearch.NewClient(opensearch.Config{Addresses: cfg.OpensearchUrls})
		if err != nil {
			return fmt.Errorf("api - Run - opensearch.NewClient: %w", err)
		}
	}

	registry, err := NewProbeRegistry(cfg, deps)
	if err != nil {
		return fmt.Errorf("api - Run - NewProbeRegistry: %w", err)
	}

	aggregator := health.NewAggregator(
		health.WithProbeTimeout(cfg.HealthProbeTimeout),
		health.WithOverallTimeout(cfg.HealthOverallTimeout),
	)

	engine := NewGinEngine(l)
	NewRouter(aggregator, registry, l).SetUp(engine)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		l.Info("starting health HTTP server", "port", cfg.Port, "probes", registry.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("api - Run - ListenAndServe: %w", err)
		}
	}

	l.Info("shutting down health service gracefully")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api - Run - Shutdown: %w", err)
	}
	return nil
}

// logDegraded returns a report hook that warns with the failing services.
func logDegraded(l *slog.Logger) health.ReportHook {
	return func(ctx context.Context, report health.Report) {
		if report.Status == health.StatusOk {
			return
		}

		attrs := make([]any, 0, len(report.Services))
		for _, s := range report.Services {
			if !s.Outcome.IsOk() {
				attrs = append(attrs, slog.String(s.Name, s.Outcome.String()))
			}
		}
		l.WarnContext(ctx, "health check degraded", slog.Group("services", attrs...))
	}
}
