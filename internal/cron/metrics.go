package cron

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/harborseal/harborseal/internal/schedule"
)

// Metrics exposes run accounting to Prometheus. A nil *Metrics is
// valid: every method is a no-op on a nil receiver, so the manager can
// run unmetered in tests and one-shot CLI commands.
type Metrics struct {
	runsTotal   *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	jobsTotal   prometheus.Gauge
}

// NewMetrics creates and registers the scheduler metrics. A nil
// registerer falls back to the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "harborseal",
				Name:      "cron_runs_total",
				Help:      "Total number of cron job runs",
			},
			[]string{"status"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "harborseal",
				Name:      "cron_run_duration_seconds",
				Help:      "Duration of cron job runs",
				Buckets:   []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300},
			},
			[]string{"status"},
		),
		jobsTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "harborseal",
				Name:      "cron_jobs_total",
				Help:      "Number of stored cron jobs",
			},
		),
	}
	reg.MustRegister(m.runsTotal, m.runDuration, m.jobsTotal)
	return m
}

// ObserveRun records one finished run.
func (m *Metrics) ObserveRun(status schedule.Status, durationMs *int64) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(string(status)).Inc()
	if durationMs != nil {
		m.runDuration.WithLabelValues(string(status)).Observe(float64(*durationMs) / 1000)
	}
}

// SetJobCount records the stored job count.
func (m *Metrics) SetJobCount(n int) {
	if m == nil {
		return
	}
	m.jobsTotal.Set(float64(n))
}
