package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL pipeline.
type Metrics struct {
	JobsConsumed     prometheus.Counter
	ResultsPublished prometheus.Counter
	JobsFailed       prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
	JobDuration             prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		JobsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "equity_etl",
			Name:      "jobs_consumed_total",
			Help:      "Total analysis jobs read from the source topic.",
		}),
		ResultsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "equity_etl",
			Name:      "results_published_total",
			Help:      "Total analysis results written to the sink topic.",
		}),
		JobsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "equity_etl",
			Name:      "jobs_failed_total",
			Help:      "Total jobs that failed to parse or compute.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "equity_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "equity_etl",
			Name:      "batch_size",
			Help:      "Number of jobs per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "equity_etl",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-run-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		JobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "equity_etl",
			Name:      "job_duration_seconds",
			Help:      "Duration of a single analysis job, including output write.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}

	prometheus.MustRegister(
		m.JobsConsumed,
		m.ResultsPublished,
		m.JobsFailed,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.JobDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		JobsConsumed:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "equity_etl", Name: "jobs_consumed_total"}),
		ResultsPublished:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "equity_etl", Name: "results_published_total"}),
		JobsFailed:              prometheus.NewCounter(prometheus.CounterOpts{Namespace: "equity_etl", Name: "jobs_failed_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "equity_etl", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "equity_etl", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "equity_etl", Name: "batch_processing_duration_seconds"}),
		JobDuration:             prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "equity_etl", Name: "job_duration_seconds"}),
	}
}
