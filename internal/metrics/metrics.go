// Package metrics records run statistics for the node-exporter textfile
// collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gauges and counters of one run on a private registry.
type Metrics struct {
	reg *prometheus.Registry

	SourceRecords   *prometheus.GaugeVec
	LinesSkipped    prometheus.Counter
	Changes         *prometheus.GaugeVec
	SnapshotRecords prometheus.Gauge
	LastRun         prometheus.Gauge
	RunDuration     prometheus.Histogram
	Outcome         *prometheus.GaugeVec
}

// New creates a Metrics instance with all run metrics registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		SourceRecords: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bets_source_records",
			Help: "Records produced by each source in the last run",
		}, []string{"source"}),
		LinesSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "bets_pdf_lines_skipped_total",
			Help: "PDF lines that did not match the record pattern",
		}),
		Changes: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bets_changes",
			Help: "Records added or updated in the last run",
		}, []string{"kind"}),
		SnapshotRecords: f.NewGauge(prometheus.GaugeOpts{
			Name: "bets_snapshot_records",
			Help: "Records in the published snapshot",
		}),
		LastRun: f.NewGauge(prometheus.GaugeOpts{
			Name: "bets_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bets_run_duration_seconds",
			Help:    "Wall time of a run",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		}),
		Outcome: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bets_run_outcome",
			Help: "1 for the outcome of the last run, 0 otherwise",
		}, []string{"outcome"}),
	}
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ObserveRun records the outcome and duration of a run started at start.
// Call with time.Now() at the start of the run.
func (m *Metrics) ObserveRun(start time.Time, outcome string, known []string) {
	for _, o := range known {
		m.Outcome.WithLabelValues(o).Set(0)
	}
	m.Outcome.WithLabelValues(outcome).Set(1)
	m.RunDuration.Observe(time.Since(start).Seconds())
	m.LastRun.Set(float64(time.Now().Unix()))
}

// WriteTextfile writes the registry in the text exposition format. The file
// is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
