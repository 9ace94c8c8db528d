package health

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// hangingProbe ignores its context and blocks until the test ends.
func hangingProbe(t *testing.T) Probe {
	t.Helper()

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	return ProbeFunc(func(context.Context) Outcome {
		<-release
		return Ok()
	})
}

// slowProbe respects its context and otherwise answers Ok after d.
func slowProbe(d time.Duration) Probe {
	return ProbeFunc(func(ctx context.Context) Outcome {
		select {
		case <-time.After(d):
			return Ok()
		case <-ctx.Done():
			return FromError(ctx.Err())
		}
	})
}

func TestAggregator_Check(t *testing.T) {
	t.Parallel()

	t.Run("empty registry is ok", func(t *testing.T) {
		report := NewAggregator().Check(context.Background(), NewRegistry())

		assert.Equal(t, StatusOk, report.Status)
		assert.Empty(t, report.Services)
	})

	t.Run("all probes ok", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db := NewMockProbe(ctrl)
		cache := NewMockProbe(ctrl)
		db.EXPECT().Run(gomock.Any()).Return(Ok())
		cache.EXPECT().Run(gomock.Any()).Return(Ok())

		r := NewRegistry()
		r.MustRegister("database", db)
		r.MustRegister("cache", cache)

		report := NewAggregator().Check(context.Background(), r)

		assert.Equal(t, StatusOk, report.Status)
		require.Len(t, report.Services, 2)
		assert.Equal(t, "database", report.Services[0].Name)
		assert.Equal(t, "cache", report.Services[1].Name)
	})

	t.Run("one failed probe degrades the report", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db := NewMockProbe(ctrl)
		cache := NewMockProbe(ctrl)
		db.EXPECT().Run(gomock.Any()).Return(Ok())
		cache.EXPECT().Run(gomock.Any()).Return(Failed("connection refused"))

		r := NewRegistry()
		r.MustRegister("database", db)
		r.MustRegister("cache", cache)

		report := NewAggregator().Check(context.Background(), r)

		assert.Equal(t, StatusDegraded, report.Status)
		outcome, ok := report.Outcome("cache")
		require.True(t, ok)
		assert.Equal(t, Failed("connection refused"), outcome)
		outcome, _ = report.Outcome("database")
		assert.True(t, outcome.IsOk())
	})

	t.Run("probes receive a context with a deadline", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		probe := NewMockProbe(ctrl)
		probe.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) Outcome {
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
			return Ok()
		})

		r := NewRegistry()
		r.MustRegister("database", probe)

		report := NewAggregator(WithProbeTimeout(time.Second), WithOverallTimeout(5*time.Second)).
			Check(context.Background(), r)

		assert.Equal(t, StatusOk, report.Status)
	})

	t.Run("uses the injected clock for the timestamp", func(t *testing.T) {
		fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

		report := NewAggregator(WithClock(func() time.Time { return fixed })).
			Check(context.Background(), NewRegistry())

		assert.Equal(t, fixed, report.Timestamp)
	})
}

func TestAggregator_Check_Timeouts(t *testing.T) {
	t.Parallel()

	t.Run("probe exceeding its own timeout is timed out, not failed", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister("database", okProbe())
		r.MustRegister("cache", slowProbe(time.Second))

		agg := NewAggregator(WithProbeTimeout(50*time.Millisecond), WithOverallTimeout(2*time.Second))
		report := agg.Check(context.Background(), r)

		assert.Equal(t, StatusDegraded, report.Status)
		outcome, _ := report.Outcome("cache")
		assert.Equal(t, TimedOut(), outcome)
		outcome, _ = report.Outcome("database")
		assert.Equal(t, Ok(), outcome)
	})

	t.Run("probe ignoring its context is abandoned at the probe timeout", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister("cache", hangingProbe(t))

		agg := NewAggregator(WithProbeTimeout(50*time.Millisecond), WithOverallTimeout(5*time.Second))

		start := time.Now()
		report := agg.Check(context.Background(), r)

		assert.Less(t, time.Since(start), time.Second)
		outcome, _ := report.Outcome("cache")
		assert.Equal(t, TimedOut(), outcome)
	})

	t.Run("overall timeout bounds the check", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister("database", okProbe())
		r.MustRegister("cache", hangingProbe(t))
		r.MustRegister("broker", hangingProbe(t))

		overall := 100 * time.Millisecond
		agg := NewAggregator(WithProbeTimeout(10*time.Second), WithOverallTimeout(overall))

		start := time.Now()
		report := agg.Check(context.Background(), r)
		elapsed := time.Since(start)

		assert.Less(t, elapsed, overall+500*time.Millisecond)
		assert.Equal(t, StatusDegraded, report.Status)
		require.Len(t, report.Services, 3)
		assert.Equal(t, Ok(), report.Services[0].Outcome)
		assert.Equal(t, TimedOut(), report.Services[1].Outcome)
		assert.Equal(t, TimedOut(), report.Services[2].Outcome)
	})

	t.Run("error caused by the probe deadline counts as timeout", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister("database", ProbeFunc(func(ctx context.Context) Outcome {
			<-ctx.Done()
			return Failed("read tcp 10.0.0.1:5432: i/o timeout")
		}))

		report := NewAggregator(WithProbeTimeout(30*time.Millisecond)).Check(context.Background(), r)

		outcome, _ := report.Outcome("database")
		assert.Equal(t, TimedOut(), outcome)
	})

	t.Run("cancelled caller context abandons outstanding probes", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister("cache", hangingProbe(t))

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(30*time.Millisecond, cancel)

		start := time.Now()
		report := NewAggregator(WithProbeTimeout(10*time.Second), WithOverallTimeout(10*time.Second)).Check(ctx, r)

		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, StatusDegraded, report.Status)
		outcome, _ := report.Outcome("cache")
		assert.Equal(t, TimedOut(), outcome)
	})
}

func TestAggregator_Check_RunsProbesConcurrently(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	for _, name := range []string{"a", "b", "c", "d"} {
		r.MustRegister(name, slowProbe(100*time.Millisecond))
	}

	start := time.Now()
	report := NewAggregator(WithProbeTimeout(time.Second)).Check(context.Background(), r)

	assert.Equal(t, StatusOk, report.Status)
	assert.Less(t, time.Since(start), 350*time.Millisecond, "probes should not run one after another")
}

func TestAggregator_Check_RecoversPanics(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.MustRegister("database", okProbe())
	r.MustRegister("cache", ProbeFunc(func(context.Context) Outcome {
		panic("boom")
	}))

	report := NewAggregator().Check(context.Background(), r)

	assert.Equal(t, StatusDegraded, report.Status)
	outcome, _ := report.Outcome("cache")
	assert.Equal(t, Failed("panic: boom"), outcome)
}

func TestAggregator_Check_EntryPerProbe(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 8; n++ {
		r := NewRegistry()
		for i := 0; i < n; i++ {
			probe := okProbe()
			if i%3 == 2 {
				probe = ProbeFunc(func(context.Context) Outcome { return Failed("down") })
			}
			r.MustRegister(string(rune('a'+i)), probe)
		}

		report := NewAggregator().Check(context.Background(), r)

		assert.Len(t, report.Services, n)
		if n >= 3 {
			assert.Equal(t, StatusDegraded, report.Status)
		} else {
			assert.Equal(t, StatusOk, report.Status)
		}
	}
}

func TestAggregator_Check_ConcurrentCallers(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.MustRegister("database", okProbe())
	r.MustRegister("cache", slowProbe(10*time.Millisecond))
	agg := NewAggregator()

	var wg sync.WaitGroup
	reports := make([]Report, 16)
	for i := range reports {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			reports[idx] = agg.Check(context.Background(), r)
		}(i)
	}
	wg.Wait()

	for _, report := range reports {
		assert.Equal(t, StatusOk, report.Status)
		assert.Len(t, report.Services, 2)
	}
}
