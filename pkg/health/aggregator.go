package health

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Status is the overall verdict of a check.
type Status string

const (
	StatusOk       Status = "ok"
	StatusDegraded Status = "degraded"
)

// ServiceResult is the outcome of one named probe within a Report.
type ServiceResult struct {
	Name    string
	Outcome Outcome
	Latency time.Duration
}

// Report is the aggregated result of a single Check call.
type Report struct {
	Status    Status
	Timestamp time.Time
	// Services follows registry insertion order.
	Services []ServiceResult
}

// Outcome returns the outcome recorded for name.
func (r Report) Outcome(name string) (Outcome, bool) {
	for _, s := range r.Services {
		if s.Name == name {
			return s.Outcome, true
		}
	}
	return Outcome{}, false
}

// Aggregator runs every probe of a registry concurrently and merges the
// outcomes. It keeps no state between calls.
type Aggregator struct {
	probeTimeout   time.Duration
	overallTimeout time.Duration
	now            func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithProbeTimeout bounds each probe run individually.
func WithProbeTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.probeTimeout = d
		}
	}
}

// WithOverallTimeout bounds the whole check.
func WithOverallTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.overallTimeout = d
		}
	}
}

// WithClock replaces time.Now as the source of report timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAggregator creates an Aggregator with DefaultProbeTimeout and DefaultTimeout
// unless overridden.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		probeTimeout:   DefaultProbeTimeout,
		overallTimeout: DefaultTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type probeResult struct {
	index   int
	outcome Outcome
	latency time.Duration
}

// Check runs all probes in registry and returns a fresh report.
//
// Probes still running when the overall timeout (or ctx) fires are recorded
// as TimedOut and their results discarded. Check never fails: the caller
// always gets one entry per registered probe.
func (a *Aggregator) Check(ctx context.Context, registry *Registry) Report {
	started := a.now()
	entries := registry.List()

	report := Report{
		Status:    StatusOk,
		Timestamp: started,
		Services:  make([]ServiceResult, len(entries)),
	}
	if len(entries) == 0 {
		return report
	}

	checkCtx, cancel := context.WithTimeout(ctx, a.overallTimeout)
	defer cancel()

	for i, e := range entries {
		report.Services[i] = ServiceResult{Name: e.Name, Outcome: TimedOut()}
	}

	// Buffered so abandoned probes never block on send.
	results := make(chan probeResult, len(entries))
	begin := time.Now()
	for i, e := range entries {
		go a.runProbe(checkCtx, i, e.Probe, results)
	}

	pending := make(map[int]struct{}, len(entries))
	for i := range entries {
		pending[i] = struct{}{}
	}

wait:
	for len(pending) > 0 {
		select {
		case res := <-results:
			report.Services[res.index].Outcome = res.outcome
			report.Services[res.index].Latency = res.latency
			delete(pending, res.index)
		case <-checkCtx.Done():
			break wait
		}
	}

	elapsed := time.Since(begin)
	for i := range pending {
		report.Services[i].Latency = elapsed
	}

	report.Status = overallStatus(report.Services)
	return report
}

func (a *Aggregator) runProbe(ctx context.Context, index int, probe Probe, results chan<- probeResult) {
	probeCtx, cancel := context.WithTimeout(ctx, a.probeTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan Outcome, 1)
	go func() {
		done <- safeRun(probeCtx, probe)
	}()

	var outcome Outcome
	select {
	case outcome = <-done:
		// An error caused by the probe's own deadline counts as a timeout.
		if !outcome.IsOk() && errors.Is(probeCtx.Err(), context.DeadlineExceeded) {
			outcome = TimedOut()
		}
	case <-probeCtx.Done():
		outcome = TimedOut()
	}

	results <- probeResult{index: index, outcome: outcome, latency: time.Since(start)}
}

func safeRun(ctx context.Context, probe Probe) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Failed(fmt.Sprintf("panic: %v", r))
		}
	}()
	return probe.Run(ctx)
}

func overallStatus(services []ServiceResult) Status {
	for _, s := range services {
		if !s.Outcome.IsOk() {
			return StatusDegraded
		}
	}
	return StatusOk
}
