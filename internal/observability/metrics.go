package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "zonemap", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zonemap", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	EnrichRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "zonemap", Name: "enrich_runs_total", Help: "Enrichment passes by view mode and outcome."},
		[]string{"mode", "outcome"}, // outcome: matched|empty
	)
	EnrichLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "zonemap", Name: "enrich_duration_seconds",
			Help:    "Enrichment pass duration seconds.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		},
	)
	MatchedZones = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "zonemap", Name: "enrich_matched_zones",
			Help:    "Zones carrying recommendation data per enrichment pass.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "zonemap", Name: "cache_events_total", Help: "Cache hits/misses/sets/errors."},
		[]string{"cache", "event"}, // event: hit|miss|set|error
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, EnrichRuns, EnrichLatency, MatchedZones, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveEnrich(mode string, matched int, dur time.Duration) {
	outcome := "matched"
	if matched == 0 {
		outcome = "empty"
	}
	EnrichRuns.WithLabelValues(mode, outcome).Inc()
	EnrichLatency.Observe(dur.Seconds())
	MatchedZones.Observe(float64(matched))
}

func ObserveCache(cache, event string) { // event: hit|miss|set|error
	CacheEvents.WithLabelValues(cache, event).Inc()
}
