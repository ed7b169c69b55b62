// Package metrics provides Prometheus metrics for the numguess game.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default bucket layouts.
var (
	scoreBuckets    = []float64{0, 1, 50, 100, 200, 400, 600, 800, 1000}
	attemptBuckets  = []float64{1, 2, 3, 5, 8, 13, 21, 34, 55}
	defaultLatencyB = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100}
)

// Manager manages all Prometheus metrics for the game.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Gameplay
	rounds       *prometheus.CounterVec
	roundScore   prometheus.Histogram
	roundAttempt prometheus.Histogram
	achievements *prometheus.CounterVec
	guesses      *prometheus.CounterVec

	// Progression
	cumulativeScore    prometheus.Gauge
	leaderboardEntries prometheus.Gauge

	// Record store
	storeAppendLatency *prometheus.HistogramVec
	storeQueryLatency  *prometheus.HistogramVec
	storeErrors        *prometheus.CounterVec

	errorRateByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "numguess",
		subsystem:        "game",
		histogramBuckets: defaultLatencyB,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.rounds = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rounds_total",
		Help:        "Finished rounds by difficulty category and outcome",
		ConstLabels: labels,
	}, []string{"category", "outcome"})

	m.roundScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "round_score",
		Help:        "Score awarded per finished round",
		Buckets:     scoreBuckets,
		ConstLabels: labels,
	})

	m.roundAttempt = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "round_attempts_used",
		Help:        "Attempts used per finished round",
		Buckets:     attemptBuckets,
		ConstLabels: labels,
	})

	m.achievements = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "achievements_unlocked_total",
		Help:        "Achievement unlocks by identifier",
		ConstLabels: labels,
	}, []string{"achievement"})

	m.guesses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "guesses_total",
		Help:        "Guesses by feedback given",
		ConstLabels: labels,
	}, []string{"feedback"})

	m.cumulativeScore = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "cumulative_score",
		Help:        "Cumulative score used for the last level computation",
		ConstLabels: labels,
	})

	m.leaderboardEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "leaderboard_entries",
		Help:        "Leaderboard log entries seen by the last stats read",
		ConstLabels: labels,
	})

	m.storeAppendLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "store",
		Name:        "append_latency_milliseconds",
		Help:        "Record store append latency in milliseconds by log",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"log"})

	m.storeQueryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "store",
		Name:        "query_latency_milliseconds",
		Help:        "Record store read-back latency in milliseconds by query",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"query"})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "store",
		Name:        "errors_total",
		Help:        "Record store failures by operation",
		ConstLabels: labels,
	}, []string{"operation"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_component_total",
		Help:        "Errors by component and error type",
		ConstLabels: labels,
	}, []string{"component", "error_type"})
}

// RecordRound counts a finished round and observes its score and attempts.
func (m *Manager) RecordRound(category, outcome string, score, attemptsUsed int) {
	m.rounds.WithLabelValues(category, outcome).Inc()
	m.roundScore.Observe(float64(score))
	m.roundAttempt.Observe(float64(attemptsUsed))
}

// RecordAchievement counts an unlock.
func (m *Manager) RecordAchievement(id string) {
	m.achievements.WithLabelValues(id).Inc()
}

// RecordGuess counts a guess by its feedback.
func (m *Manager) RecordGuess(feedback string) {
	m.guesses.WithLabelValues(feedback).Inc()
}

// UpdateCumulativeScore sets the cumulative score gauge.
func (m *Manager) UpdateCumulativeScore(score int) {
	m.cumulativeScore.Set(float64(score))
}

// UpdateLeaderboardEntries sets the leaderboard size gauge.
func (m *Manager) UpdateLeaderboardEntries(count int) {
	m.leaderboardEntries.Set(float64(count))
}

// RecordStoreAppendLatency observes an append in milliseconds.
func (m *Manager) RecordStoreAppendLatency(log string, latencyMs float64) {
	m.storeAppendLatency.WithLabelValues(log).Observe(latencyMs)
}

// RecordStoreQueryLatency observes a read-back query in milliseconds.
func (m *Manager) RecordStoreQueryLatency(query string, latencyMs float64) {
	m.storeQueryLatency.WithLabelValues(query).Observe(latencyMs)
}

// RecordStoreError counts a failed store operation.
func (m *Manager) RecordStoreError(operation string) {
	m.storeErrors.WithLabelValues(operation).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// Default returns the process-wide manager backed by the custom registry.
func Default() *Manager {
	return globalManager
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes every metric gathered from g to path in the text
// exposition format, for the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}
