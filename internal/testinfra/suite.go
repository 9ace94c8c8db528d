//go:build integration
// +build integration

package testinfra

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

type TestSuite struct {
	Postgres *PostgresContainer
	Redis    *RedisContainer
	Kafka    *KafkaContainer
}

type SuiteOptions struct {
	WithKafka bool
}

// NewTestSuite starts the dependencies probed by the health check.
// Containers are started in parallel for speed.
func NewTestSuite(ctx context.Context, opts SuiteOptions) (*TestSuite, error) {
	suite := &TestSuite{}
	var g errgroup.Group

	g.Go(func() error {
		pg, err := NewPostgres(ctx)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		suite.Postgres = pg
		return nil
	})

	g.Go(func() error {
		r, err := NewRedis(ctx)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		suite.Redis = r
		return nil
	})

	if opts.WithKafka {
		g.Go(func() error {
			k, err := NewKafka(ctx)
			if err != nil {
				return fmt.Errorf("kafka: %w", err)
			}
			suite.Kafka = k
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		suite.Cleanup(ctx) // cleanup partially started containers
		return nil, fmt.Errorf("failed to start containers: %w", err)
	}

	return suite, nil
}

func (s *TestSuite) Cleanup(ctx context.Context) {
	if s.Kafka != nil {
		s.Kafka.Cleanup(ctx)
	}
	if s.Redis != nil {
		s.Redis.Cleanup(ctx)
	}
	if s.Postgres != nil {
		s.Postgres.Cleanup(ctx)
	}
}
