// Package metrics provides Prometheus metrics for the film grading pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Score histogram buckets cover the clamped 0-100 grade range.
var defaultScoreBuckets = []float64{50, 60, 70, 75, 80, 85, 90, 95, 100} //nolint:gochecknoglobals // shared default

// Manager owns the Prometheus metrics for a grading run.
type Manager struct {
	namespace    string
	subsystem    string
	scoreBuckets []float64
	enabled      bool
	registry     *prometheus.Registry

	// Batch throughput
	recordsGraded  prometheus.Counter
	recordsSkipped prometheus.Counter
	batchesRun     prometheus.Counter
	batchDuration  prometheus.Histogram

	// Grading quality
	scores         prometheus.Histogram
	codePoints     prometheus.Counter
	unmatchedCodes prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager()
}

// Global returns the process-wide metrics manager.
func Global() *Manager {
	return globalManager
}

// NewManager creates a metrics manager with configuration options. Each
// manager gets its own registry unless one is supplied, so parallel tests
// never collide on metric registration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:    "filmgrade",
		subsystem:    "batch",
		scoreBuckets: defaultScoreBuckets,
		enabled:      true,
		registry:     prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsGraded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_graded_total",
		Help:      "Total number of player-week records graded",
	})
	m.recordsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_skipped_total",
		Help:      "Total number of input rows excluded by validation",
	})
	m.batchesRun = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Total number of grading runs",
	})
	m.batchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Wall time of a grading run",
		Buckets:   prometheus.DefBuckets,
	})
	m.scores = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score",
		Help:      "Distribution of clamped grade scores",
		Buckets:   m.scoreBuckets,
	})
	m.codePoints = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "code_points_total",
		Help:      "Sum of positive code points resolved from play annotations",
	})
	m.unmatchedCodes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unmatched_codes_total",
		Help:      "Play-annotation tokens that matched nothing in the legend",
	})
}

// RecordGraded counts one successfully graded record.
func (m *Manager) RecordGraded(score float64) {
	if !m.enabled {
		return
	}
	m.recordsGraded.Inc()
	m.scores.Observe(score)
}

// RecordSkipped counts one excluded input row.
func (m *Manager) RecordSkipped() {
	if !m.enabled {
		return
	}
	m.recordsSkipped.Inc()
}

// AddCodePoints accumulates resolved code points. Counters cannot decrease,
// so negative per-record sums are not observed.
func (m *Manager) AddCodePoints(points float64) {
	if !m.enabled || points <= 0 {
		return
	}
	m.codePoints.Add(points)
}

// AddUnmatchedCodes accumulates the unmatched-token diagnostic.
func (m *Manager) AddUnmatchedCodes(n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.unmatchedCodes.Add(float64(n))
}

// RunCompleted records one finished grading run and its duration.
func (m *Manager) RunCompleted(d time.Duration) {
	if !m.enabled {
		return
	}
	m.batchesRun.Inc()
	m.batchDuration.Observe(d.Seconds())
}

// Handler exposes the manager's registry for embedding in a scrape endpoint.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}
