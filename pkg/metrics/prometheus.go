// Package metrics provides Prometheus metrics for the arbiter engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Record activity
	gamesRecorded      prometheus.Counter
	rollbacks          prometheus.Counter
	tournamentsCreated prometheus.Counter
	tournamentsEnded   prometheus.Counter
	tournamentsRemoved prometheus.Counter
	playersRemoved     prometheus.Counter

	// Current state
	totalGames     prometheus.Gauge
	trackedPlayers prometheus.Gauge

	// Reports
	reportWrites prometheus.Counter
	reportErrors prometheus.Counter

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "arbiter",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.gamesRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_recorded_total",
		Help:      "Total number of games recorded across all tournaments",
	})
	m.rollbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rollbacks_total",
		Help:      "Total number of compound updates unwound after a partial failure",
	})
	m.tournamentsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tournaments_created_total",
		Help:      "Total number of tournaments registered",
	})
	m.tournamentsEnded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tournaments_ended_total",
		Help:      "Total number of tournaments closed with a winner",
	})
	m.tournamentsRemoved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tournaments_removed_total",
		Help:      "Total number of tournaments removed",
	})
	m.playersRemoved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_removed_total",
		Help:      "Total number of players deactivated",
	})

	m.totalGames = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_games",
		Help:      "Current system-wide game count",
	})
	m.trackedPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_players",
		Help:      "Current number of player records, active or not",
	})

	m.reportWrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_writes_total",
		Help:      "Total number of reports written successfully",
	})
	m.reportErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_errors_total",
		Help:      "Total number of report writes that failed",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by endpoint, method, and status",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// Global convenience helpers, delegating to the singleton manager.

func RecordGameRecorded()      { globalManager.gamesRecorded.Inc() }
func RecordRollback()          { globalManager.rollbacks.Inc() }
func RecordTournamentCreated() { globalManager.tournamentsCreated.Inc() }
func RecordTournamentEnded()   { globalManager.tournamentsEnded.Inc() }
func RecordTournamentRemoved() { globalManager.tournamentsRemoved.Inc() }
func RecordPlayerRemoved()     { globalManager.playersRemoved.Inc() }
func RecordReportWrite()       { globalManager.reportWrites.Inc() }
func RecordReportError()       { globalManager.reportErrors.Inc() }

func UpdateTotalGames(count int)     { globalManager.totalGames.Set(float64(count)) }
func UpdateTrackedPlayers(count int) { globalManager.trackedPlayers.Set(float64(count)) }

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

// GetRegistry returns the registry backing the singleton manager, for
// serving via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
