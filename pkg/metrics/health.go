package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"HealthService/pkg/health"
)

var (
	ProbeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "duration_seconds",
			Help:      "Dependency probe latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"probe", "outcome"},
	)

	ProbeUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "up",
			Help:      "1 if the last probe of the dependency was ok, 0 otherwise",
		},
		[]string{"probe"},
	)

	OverallUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "up",
			Help:      "1 if the last health check was ok, 0 if degraded",
		},
	)
)

func init() {
	Registry.MustRegister(ProbeDuration, ProbeUp, OverallUp)
}

// ObserveHealthReport records one health report. It has the signature of
// health.ReportHook.
func ObserveHealthReport(_ context.Context, report health.Report) {
	for _, s := range report.Services {
		ProbeDuration.WithLabelValues(s.Name, s.Outcome.Kind.String()).Observe(s.Latency.Seconds())
		ProbeUp.WithLabelValues(s.Name).Set(boolToFloat(s.Outcome.IsOk()))
	}
	OverallUp.Set(boolToFloat(report.Status == health.StatusOk))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
