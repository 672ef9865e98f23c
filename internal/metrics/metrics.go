// Package metrics holds the dashboard's prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics records source health, cache efficiency, logins and renders.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	cache         *prometheus.CounterVec
	logins        *prometheus.CounterVec
	renders       *prometheus.CounterVec
	extractions   *prometheus.CounterVec
}

// New creates the collectors and registers them on registerer
// (prometheus.DefaultRegisterer when nil).
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biomax_source_fetch_total",
			Help: "Record source fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "biomax_source_fetch_duration_seconds",
			Help:    "Record source fetch latency.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"source"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biomax_snapshot_cache_total",
			Help: "Snapshot cache lookups by source and result.",
		}, []string{"source", "result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biomax_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biomax_dashboard_renders_total",
			Help: "Dashboard renders by dashboard and resulting state.",
		}, []string{"dashboard", "state"}),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biomax_extract_runs_total",
			Help: "Bronze extraction runs by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
	}

	registerer.MustRegister(m.fetches, m.fetchDuration, m.cache, m.logins, m.renders, m.extractions)
	return m
}

// ObserveFetch records one source fetch.
func (m *Metrics) ObserveFetch(source string, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(source, outcome(err)).Inc()
	m.fetchDuration.WithLabelValues(source).Observe(took.Seconds())
}

// CacheLookup records a snapshot cache hit or miss.
func (m *Metrics) CacheLookup(source string, hit bool) {
	if m == nil {
		return
	}
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	m.cache.WithLabelValues(source, result).Inc()
}

// LoginAttempt records a login outcome.
func (m *Metrics) LoginAttempt(ok bool) {
	if m == nil {
		return
	}
	result := OutcomeFailure
	if ok {
		result = OutcomeSuccess
	}
	m.logins.WithLabelValues(result).Inc()
}

// Render records a dashboard render in the given state.
func (m *Metrics) Render(dashboard, state string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(dashboard, state).Inc()
}

// Extraction records one bronze extraction run.
func (m *Metrics) Extraction(dataset string, err error) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(dataset, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
