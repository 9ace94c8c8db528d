// Package postgres wraps a pgx connection pool together with a squirrel
// statement builder configured for PostgreSQL placeholders.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	_defaultMaxPoolSize = 10
	_defaultConnTimeout = 20 * time.Second
)

type Postgres struct {
	maxPoolSize int
	connTimeout time.Duration

	Builder squirrel.StatementBuilderType
	Pool    *pgxpool.Pool
}

type Option func(*Postgres)

func MaxPoolSize(size int) Option {
	return func(p *Postgres) {
		if size > 0 {
			p.maxPoolSize = size
		}
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(p *Postgres) {
		if timeout > 0 {
			p.connTimeout = timeout
		}
	}
}

// New creates the pool. Connections are established lazily, so an
// unreachable server does not fail here; it shows up in health checks.
func New(url string, opts ...Option) (*Postgres, error) {
	pg := &Postgres{
		maxPoolSize: _defaultMaxPoolSize,
		connTimeout: _defaultConnTimeout,
		Builder:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	for _, opt := range opts {
		opt(pg)
	}

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("postgres - New - pgxpool.ParseConfig: %w", err)
	}
	poolConfig.MaxConns = int32(pg.maxPoolSize)
	poolConfig.ConnConfig.ConnectTimeout = pg.connTimeout

	ctx, cancel := context.WithTimeout(context.Background(), pg.connTimeout)
	defer cancel()

	pg.Pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres - New - pgxpool.NewWithConfig: %w", err)
	}

	return pg, nil
}

func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}
