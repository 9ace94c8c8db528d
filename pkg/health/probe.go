// Package health probes the downstream dependencies of a process and
// aggregates their reachability into a single verdict.
package health

import (
	"context"
	"time"
)

const (
	// DefaultProbeTimeout bounds a single probe run.
	DefaultProbeTimeout = 2 * time.Second
	// DefaultTimeout bounds a whole check across all probes.
	DefaultTimeout = 5 * time.Second
)

//go:generate mockgen -source=probe.go -destination=mock_probe.go -package=health

// Probe checks the liveness of one dependency.
//
// Run must not panic or block past ctx: every failure mode is converted into
// an Outcome. Implementations perform the cheapest read-only operation that
// proves the dependency answers.
type Probe interface {
	Run(ctx context.Context) Outcome
}

// ProbeFunc adapts a plain function to the Probe interface.
type ProbeFunc func(ctx context.Context) Outcome

// Run calls f(ctx).
func (f ProbeFunc) Run(ctx context.Context) Outcome {
	return f(ctx)
}

// ErrorProbe adapts a function returning an error, classifying the error
// with FromError.
func ErrorProbe(fn func(ctx context.Context) error) Probe {
	return ProbeFunc(func(ctx context.Context) Outcome {
		return FromError(fn(ctx))
	})
}
