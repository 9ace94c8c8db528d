package health

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// DBPinger is the part of a pgx pool the database probe needs.
// *pgxpool.Pool and pgxmock pools satisfy it.
type DBPinger interface {
	Ping(ctx context.Context) error
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DatabaseProbe checks relational store connectivity.
type DatabaseProbe struct {
	db      DBPinger
	verify  bool
	builder squirrel.StatementBuilderType
}

// DatabaseProbeOption configures a DatabaseProbe.
type DatabaseProbeOption func(*DatabaseProbe)

// WithVerifyQuery makes the probe run SELECT 1 after a successful ping.
func WithVerifyQuery(builder squirrel.StatementBuilderType) DatabaseProbeOption {
	return func(p *DatabaseProbe) {
		p.verify = true
		p.builder = builder
	}
}

// NewDatabaseProbe creates a new database probe.
func NewDatabaseProbe(db DBPinger, opts ...DatabaseProbeOption) *DatabaseProbe {
	p := &DatabaseProbe{db: db}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run pings the database and, if enabled, runs the verify query.
func (p *DatabaseProbe) Run(ctx context.Context) Outcome {
	if err := p.db.Ping(ctx); err != nil {
		return FromError(err)
	}
	if !p.verify {
		return Ok()
	}
	return FromError(p.selectOne(ctx))
}

func (p *DatabaseProbe) selectOne(ctx context.Context) error {
	sql, args, err := p.builder.Select("1").ToSql()
	if err != nil {
		return fmt.Errorf("build verify query: %w", err)
	}

	var one int
	if err := p.db.QueryRow(ctx, sql, args...).Scan(&one); err != nil {
		return err
	}
	if one != 1 {
		return fmt.Errorf("verify query returned %d", one)
	}
	return nil
}
