// Package telemetry exposes the engine's Prometheus metrics and a
// read-only diagnostics HTTP server.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every Prometheus collector the engine, watchlist
// builder, and venue clients report through.
type Registry struct {
	RunDuration       *prometheus.HistogramVec
	RunErrors         *prometheus.CounterVec
	CandidatesScored  *prometheus.CounterVec
	LinksUpserted     *prometheus.CounterVec
	WatchlistSize     *prometheus.GaugeVec
	VenueFetchLatency *prometheus.HistogramVec
	VenueFetchErrors  *prometheus.CounterVec
	CircuitState      *prometheus.GaugeVec
}

// NewRegistry builds and registers every collector against the default
// Prometheus registerer.
func NewRegistry() *Registry {
	r := &Registry{
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketlink_engine_run_duration_seconds",
				Help:    "Duration of one engine topic run.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"topic"},
		),
		RunErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlink_engine_run_errors_total",
				Help: "Total engine topic runs that returned an error.",
			},
			[]string{"topic", "reason"},
		),
		CandidatesScored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlink_candidates_scored_total",
				Help: "Total right-side candidates scored against a left market.",
			},
			[]string{"topic"},
		),
		LinksUpserted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlink_links_upserted_total",
				Help: "Total market_links rows upserted, by resulting status.",
			},
			[]string{"topic", "status"},
		),
		WatchlistSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketlink_watchlist_size",
				Help: "Current watchlist item count by venue.",
			},
			[]string{"venue"},
		),
		VenueFetchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketlink_venue_fetch_duration_seconds",
				Help:    "Duration of a venue client fetch call.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"venue", "operation"},
		),
		VenueFetchErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlink_venue_fetch_errors_total",
				Help: "Total venue client fetch failures by kind.",
			},
			[]string{"venue", "kind"},
		),
		CircuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketlink_venue_circuit_state",
				Help: "Circuit breaker state per venue (0=closed, 1=half-open, 2=open).",
			},
			[]string{"venue"},
		),
	}

	prometheus.MustRegister(
		r.RunDuration, r.RunErrors, r.CandidatesScored, r.LinksUpserted,
		r.WatchlistSize, r.VenueFetchLatency, r.VenueFetchErrors, r.CircuitState,
	)
	return r
}

// ObserveRun records one engine topic run's duration and, if err is
// non-nil, increments RunErrors with a coarse reason label.
func (r *Registry) ObserveRun(topic string, d time.Duration, err error) {
	r.RunDuration.WithLabelValues(topic).Observe(d.Seconds())
	if err != nil {
		r.RunErrors.WithLabelValues(topic, reasonOf(err)).Inc()
	}
}

func reasonOf(err error) string {
	if err == nil {
		return ""
	}
	return "error"
}

// RecordCandidates adds n to the scored-candidate counter for topic.
func (r *Registry) RecordCandidates(topic string, n int) {
	r.CandidatesScored.WithLabelValues(topic).Add(float64(n))
}

// RecordLinkUpsert increments the link-upsert counter for topic/status.
func (r *Registry) RecordLinkUpsert(topic, status string) {
	r.LinksUpserted.WithLabelValues(topic, status).Inc()
}

// SetWatchlistSize sets the current watchlist gauge for a venue.
func (r *Registry) SetWatchlistSize(venue string, n int) {
	r.WatchlistSize.WithLabelValues(venue).Set(float64(n))
}

// ObserveVenueFetch records a venue client fetch call's latency and,
// if err is non-nil, increments VenueFetchErrors with kind.
func (r *Registry) ObserveVenueFetch(venue, operation string, d time.Duration, err error, kind string) {
	r.VenueFetchLatency.WithLabelValues(venue, operation).Observe(d.Seconds())
	if err != nil {
		r.VenueFetchErrors.WithLabelValues(venue, kind).Inc()
	}
}

// CircuitStateValue maps a breaker state name to the gauge's numeric encoding.
func CircuitStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// SetCircuitState updates the circuit-breaker gauge for a venue.
func (r *Registry) SetCircuitState(venue, state string) {
	r.CircuitState.WithLabelValues(venue).Set(CircuitStateValue(state))
}
