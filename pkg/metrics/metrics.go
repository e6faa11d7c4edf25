// Package metrics provides Prometheus metrics for the CourtPulse worker.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager registers and exposes the worker's Prometheus metrics.
type Manager struct {
	registry *prometheus.Registry

	refreshCycles    *prometheus.CounterVec
	refreshFailures  *prometheus.CounterVec
	refreshSkipped   *prometheus.CounterVec
	refreshDuration  *prometheus.HistogramVec
	gamesDiscovered  *prometheus.GaugeVec
	recordsPersisted *prometheus.GaugeVec
	gamesSkipped     *prometheus.CounterVec
	parseAnomalies   prometheus.Counter
}

// NewManager creates a Manager with all metrics registered on a private registry.
func NewManager() *Manager {
	reg := prometheus.NewRegistry()

	m := &Manager{
		registry: reg,
		refreshCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courtpulse",
			Name:      "refresh_cycles_total",
			Help:      "Completed refresh cycles per mode.",
		}, []string{"mode"}),
		refreshFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courtpulse",
			Name:      "refresh_failures_total",
			Help:      "Refresh cycles that ended in error per mode.",
		}, []string{"mode"}),
		refreshSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courtpulse",
			Name:      "refresh_skipped_total",
			Help:      "Refresh ticks skipped because a cycle was already in flight.",
		}, []string{"mode"}),
		refreshDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "courtpulse",
			Name:      "refresh_duration_seconds",
			Help:      "End-to-end refresh cycle duration per mode.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"mode"}),
		gamesDiscovered: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "courtpulse",
			Name:      "games_discovered",
			Help:      "Games found by the last discovery pass per mode.",
		}, []string{"mode"}),
		recordsPersisted: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "courtpulse",
			Name:      "records_persisted",
			Help:      "Player records written by the last successful refresh per mode.",
		}, []string{"mode"}),
		gamesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courtpulse",
			Name:      "games_skipped_total",
			Help:      "Games dropped from a cycle after exhausting fetch retries.",
		}, []string{"mode"}),
		parseAnomalies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "courtpulse",
			Name:      "minutes_parse_anomalies_total",
			Help:      "Minutes fields that fell back to the parse sentinel.",
		}),
	}

	reg.MustRegister(
		m.refreshCycles,
		m.refreshFailures,
		m.refreshSkipped,
		m.refreshDuration,
		m.gamesDiscovered,
		m.recordsPersisted,
		m.gamesSkipped,
		m.parseAnomalies,
	)

	return m
}

// RecordCycle records a finished refresh cycle.
func (m *Manager) RecordCycle(mode string, seconds float64, success bool) {
	m.refreshCycles.WithLabelValues(mode).Inc()
	m.refreshDuration.WithLabelValues(mode).Observe(seconds)
	if !success {
		m.refreshFailures.WithLabelValues(mode).Inc()
	}
}

// RecordSkippedTick records a tick dropped by the single-flight guard.
func (m *Manager) RecordSkippedTick(mode string) {
	m.refreshSkipped.WithLabelValues(mode).Inc()
}

// RecordDiscovery records the size of the last discovery result.
func (m *Manager) RecordDiscovery(mode string, games int) {
	m.gamesDiscovered.WithLabelValues(mode).Set(float64(games))
}

// RecordPersisted records the size of the last persisted snapshot.
func (m *Manager) RecordPersisted(mode string, records int) {
	m.recordsPersisted.WithLabelValues(mode).Set(float64(records))
}

// RecordSkippedGame records a game dropped after fetch retries were exhausted.
func (m *Manager) RecordSkippedGame(mode string) {
	m.gamesSkipped.WithLabelValues(mode).Inc()
}

// RecordParseAnomaly records a minutes field that could not be parsed.
func (m *Manager) RecordParseAnomaly() {
	m.parseAnomalies.Inc()
}

// Handler returns an HTTP handler serving the registered metrics.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
