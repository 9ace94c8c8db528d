package api

import (
	"github.com/opensearch-project/opensearch-go"
	goredis "github.com/redis/go-redis/v9"

	"HealthService/config"
	"HealthService/pkg/health"
	"HealthService/pkg/postgres"
)

const (
	DatabaseProbeName = "database"
	BrokerProbeName   = "broker"
	SearchProbeName   = "search"
)

// Dependencies are the clients probed by the health check. Search is optional.
type Dependencies struct {
	Postgres *postgres.Postgres
	Cache    goredis.UniversalClient
	Search   *opensearch.Client
}

// NewProbeRegistry registers the database and cache probes, plus the broker
// and search probes when those dependencies are configured.
func NewProbeRegistry(cfg config.Config, deps Dependencies) (*health.Registry, error) {
	registry := health.NewRegistry()

	var dbOpts []health.DatabaseProbeOption
	if cfg.HealthDBVerifyQuery {
		dbOpts = append(dbOpts, health.WithVerifyQuery(deps.Postgres.Builder))
	}
	if err := registry.Register(DatabaseProbeName, health.NewDatabaseProbe(deps.Postgres.Pool, dbOpts...)); err != nil {
		return nil, err
	}

	if err := registry.Register(cfg.RedisProbeName, health.NewCacheProbe(deps.Cache)); err != nil {
		return nil, err
	}

	if len(cfg.KafkaBrokers) > 0 {
		if err := registry.Register(BrokerProbeName, health.NewBrokerProbe(cfg.KafkaBrokers)); err != nil {
			return nil, err
		}
	}

	if deps.Search != nil {
		if err := registry.Register(SearchProbeName, health.NewSearchProbe(deps.Search)); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
