package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// regrid pipeline and the job worker.
type Metrics struct {
	RunsCompleted prometheus.Counter
	RunsFailed    prometheus.Counter
	WorkerRunning prometheus.Gauge

	// Per-stage timings and sizes.
	StageDuration   *prometheus.HistogramVec // label: stage={read,resample,magnitude,encode,write}
	RunDuration     prometheus.Histogram
	ResampledPixels prometheus.Counter

	// Job intake metrics (service mode).
	JobsConsumed  prometheus.Counter
	ResultsPosted prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsCompleted,
		m.RunsFailed,
		m.WorkerRunning,
		m.StageDuration,
		m.RunDuration,
		m.ResampledPixels,
		m.JobsConsumed,
		m.ResultsPosted,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RunsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "windspeed",
			Name:      "runs_completed_total",
			Help:      "Total regrid runs that produced an output raster.",
		}),
		RunsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "windspeed",
			Name:      "runs_failed_total",
			Help:      "Total regrid runs aborted by an error.",
		}),
		WorkerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "windspeed",
			Name:      "worker_running",
			Help:      "1 when the job worker loop is active, 0 when shut down.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "windspeed",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"stage"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "windspeed",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete read-resample-write run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ResampledPixels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "windspeed",
			Name:      "resampled_pixels_total",
			Help:      "Total target pixels produced by the resample engine.",
		}),
		JobsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "windspeed",
			Name:      "jobs_consumed_total",
			Help:      "Total regrid jobs read from the source topic.",
		}),
		ResultsPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "windspeed",
			Name:      "results_posted_total",
			Help:      "Total result events written to the sink topic.",
		}),
	}
}
