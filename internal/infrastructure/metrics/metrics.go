package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

const namespace = "featurestore"

// Metrics holds all Prometheus metrics. It implements usecase.Observer.
type Metrics struct {
	// Assembly metrics
	RunsCompleted      prometheus.Counter
	RowsAssembled      prometheus.Counter
	LoansSkipped       *prometheus.CounterVec
	FlaggedRows        prometheus.Counter
	Violations         *prometheus.CounterVec
	AssemblyDuration   prometheus.Histogram
	LastRunDefaultRate prometheus.Gauge

	// Cache metrics
	CacheLookups *prometheus.CounterVec

	// Data-quality metrics
	QualityChecks *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assembly_runs_total",
			Help:      "Total number of completed assembly runs",
		}),
		RowsAssembled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_assembled_total",
			Help:      "Total number of feature rows emitted",
		}),
		LoansSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loans_skipped_total",
				Help:      "Loans omitted from the feature table by reason",
			},
			[]string{"reason"},
		),
		FlaggedRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flagged_rows_total",
			Help:      "Feature rows carrying at least one out-of-range flag",
		}),
		Violations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "violations_total",
				Help:      "Source records excluded as data-quality violations",
			},
			[]string{"entity", "kind"},
		),
		AssemblyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assembly_duration_seconds",
			Help:      "Duration of assembly runs",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		LastRunDefaultRate: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_default_rate",
			Help:      "Share of emitted rows with default_30d = 1 in the last run",
		}),

		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Feature cache lookups by result",
			},
			[]string{"result"},
		),

		QualityChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quality_checks_total",
				Help:      "Data-quality checks by category and status",
			},
			[]string{"category", "status"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_duration_seconds",
				Help:      "HTTP request duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// RunCompleted records the outcome of one assembly run.
func (m *Metrics) RunCompleted(run *domain.AssemblyRun, violations []domain.ViolationCount, elapsed time.Duration) {
	m.RunsCompleted.Inc()
	m.RowsAssembled.Add(float64(run.RowsEmitted))
	m.LoansSkipped.WithLabelValues("missing_anchor").Add(float64(run.SkippedNoAnchor))
	m.LoansSkipped.WithLabelValues("unlabeled").Add(float64(run.SkippedUnlabeled))
	m.FlaggedRows.Add(float64(run.FlaggedRows))
	m.AssemblyDuration.Observe(elapsed.Seconds())

	if run.RowsEmitted > 0 {
		m.LastRunDefaultRate.Set(float64(run.DefaultedLoanCount) / float64(run.RowsEmitted))
	}

	for _, v := range violations {
		m.Violations.WithLabelValues(string(v.Entity), v.Kind).Add(float64(v.Count))
	}
}

// CacheLookup records a feature cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// QualityChecked records one evaluated data-quality check.
func (m *Metrics) QualityChecked(category, status string) {
	m.QualityChecks.WithLabelValues(category, status).Inc()
}
