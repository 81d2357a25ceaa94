package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks load and export activity of the dashboard.
type Metrics struct {
	LoadsTotal      prometheus.Counter
	LoadFailures    prometheus.Counter
	LoadDuration    prometheus.Histogram
	SnapshotRecords prometheus.Gauge
	ExportsTotal    prometheus.Counter
}

// New registers all dashboard metrics against reg. Tests pass a fresh
// prometheus.NewRegistry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoadsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "licenca_loads_total",
			Help: "Total number of classification loads attempted",
		}),
		LoadFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "licenca_load_failures_total",
			Help: "Total number of classification loads that failed",
		}),
		LoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "licenca_load_duration_seconds",
			Help:    "Duration of full fetch+enrich+rank passes",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SnapshotRecords: factory.NewGauge(prometheus.GaugeOpts{
			Name: "licenca_snapshot_records",
			Help: "Number of records in the current classification snapshot",
		}),
		ExportsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "licenca_exports_total",
			Help: "Total number of CSV exports served",
		}),
	}
}

// ObserveLoad records one load outcome.
func (m *Metrics) ObserveLoad(start time.Time, records int, err error) {
	m.LoadsTotal.Inc()
	m.LoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.LoadFailures.Inc()
		return
	}
	m.SnapshotRecords.Set(float64(records))
}
