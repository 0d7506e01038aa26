package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Outcome labels for the lyrics gateway counter.
const (
	LyricsOutcomeFound    = "found"
	LyricsOutcomeNotFound = "not_found"
	LyricsOutcomeUpstream = "upstream_error"
)

// Outcome labels for the enrichment job counter.
const (
	EnrichOutcomeApplied     = "applied"
	EnrichOutcomeNoMatch     = "no_match"
	EnrichOutcomeSongMissing = "song_missing"
	EnrichOutcomeFailed      = "failed"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests      *prometheus.CounterVec
	LyricsCacheHits   prometheus.Counter
	LyricsCacheMisses prometheus.Counter
	LyricsGateway     *prometheus.CounterVec
	EnrichmentJobs    *prometheus.CounterVec
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "songs_http_requests_total",
			Help: "HTTP requests handled, by method, route and status code.",
		}, []string{"method", "route", "status"}),
		LyricsCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "songs_lyrics_cache_hits_total",
			Help: "Lyrics lookups served from the TTL cache.",
		}),
		LyricsCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "songs_lyrics_cache_misses_total",
			Help: "Lyrics lookups that had to hit the upstream gateway.",
		}),
		LyricsGateway: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "songs_lyrics_gateway_results_total",
			Help: "Lyrics gateway call outcomes.",
		}, []string{"outcome"}),
		EnrichmentJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "songs_enrichment_jobs_total",
			Help: "Enrichment job outcomes.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.LyricsCacheHits,
		m.LyricsCacheMisses,
		m.LyricsGateway,
		m.EnrichmentJobs,
	)

	return m
}

// Registry returns the underlying registry for the scrape handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
