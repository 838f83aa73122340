package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dirpurge"

// runMetrics holds the gauges describing the last run.
type runMetrics struct {
	candidates *prometheus.GaugeVec
	outcomes   *prometheus.GaugeVec
	bytes      *prometheus.GaugeVec
	warnings   prometheus.Gauge
	aborted    prometheus.Gauge
	timestamp  prometheus.Gauge
	duration   prometheus.Gauge
}

func newRunMetrics(reg prometheus.Registerer) *runMetrics {
	m := &runMetrics{
		candidates: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "candidates",
				Help:      "Matched directories by selection state in the last run.",
			},
			[]string{"state"},
		),
		outcomes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "outcomes",
				Help:      "Per-directory outcomes by final status in the last run.",
			},
			[]string{"status"},
		),
		bytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "bytes",
				Help:      "Byte totals of the last run.",
			},
			[]string{"kind"},
		),
		warnings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scan_warnings",
			Help:      "Unreadable entries skipped during the last scan.",
		}),
		aborted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_aborted",
			Help:      "1 if the last run was aborted or cancelled.",
		}),
		timestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
	}
	reg.MustRegister(m.candidates, m.outcomes, m.bytes, m.warnings, m.aborted, m.timestamp, m.duration)
	return m
}

func (m *runMetrics) observe(r *Report) {
	s := r.Summary
	m.candidates.WithLabelValues("found").Set(float64(s.Found))
	m.candidates.WithLabelValues("selected").Set(float64(s.Selected))
	m.candidates.WithLabelValues("filtered").Set(float64(s.Filtered))

	m.outcomes.WithLabelValues(string(Completed)).Set(float64(s.Completed))
	m.outcomes.WithLabelValues(string(PartiallyFailed)).Set(float64(s.PartiallyFailed))
	m.outcomes.WithLabelValues(string(Skipped)).Set(float64(s.Skipped))
	m.outcomes.WithLabelValues(string(DryRun)).Set(float64(s.DryRun))

	m.bytes.WithLabelValues("found").Set(float64(s.BytesFound))
	m.bytes.WithLabelValues("freed").Set(float64(s.BytesFreed))
	m.bytes.WithLabelValues("planned").Set(float64(s.BytesPlanned))
	m.bytes.WithLabelValues("backed_up").Set(float64(s.BytesBackedUp))

	m.warnings.Set(float64(len(r.Warnings)))
	if s.Aborted || s.Cancelled {
		m.aborted.Set(1)
	}
	if !r.FinishedAt.IsZero() {
		m.timestamp.Set(float64(r.FinishedAt.Unix()))
	}
	m.duration.Set(r.Duration().Seconds())
}

// WriteMetrics writes the run's metrics in the Prometheus text format to
// path, for pickup by a node_exporter textfile collector.
func WriteMetrics(path string, r *Report) error {
	reg := prometheus.NewRegistry()
	newRunMetrics(reg).observe(r)
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
