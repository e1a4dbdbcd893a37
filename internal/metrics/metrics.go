// Package metrics exposes Prometheus instruments for the engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Operations counts progression operations by name and outcome.
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "physiq_progression_operations_total",
		Help: "Progression operations by operation and result (ok, noop, rejected)",
	}, []string{"operation", "result"})

	// Events counts bus notifications by type.
	Events = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "physiq_events_published_total",
		Help: "Engine notifications published, by event type",
	}, []string{"type"})

	// SaveAttempts counts progress writes by outcome.
	SaveAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "physiq_save_attempts_total",
		Help: "Progress save attempts by result (success, failure, abandoned)",
	}, []string{"result"})

	// SaveDuration observes how long a single progress write takes.
	SaveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "physiq_save_duration_seconds",
		Help:    "Duration of a single progress write",
		Buckets: prometheus.DefBuckets,
	})

	// PendingSaves tracks saves waiting on a retry.
	PendingSaves = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "physiq_saves_pending",
		Help: "Saves that have not yet been written",
	})

	// LoadFallbacks counts loads that fell back to built-in data.
	LoadFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "physiq_load_fallbacks_total",
		Help: "Loads that fell back to defaults, by source (graph, progress)",
	}, []string{"source"})

	// WebsocketClients tracks connected push clients.
	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "physiq_websocket_clients",
		Help: "Connected websocket clients",
	})
)

// Result labels an operation outcome.
func Result(ok, changed bool) string {
	switch {
	case ok && changed:
		return "ok"
	case ok:
		return "noop"
	default:
		return "rejected"
	}
}
