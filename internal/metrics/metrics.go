package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CacheOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movieview_cache_operations_total",
			Help: "Count of response cache lookups by result",
		},
		[]string{"result"}, // hit, miss, error
	)
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movieview_upstream_requests_total",
			Help: "Count of TMDB API requests",
		},
		[]string{"endpoint", "status"},
	)
	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movieview_upstream_request_duration_seconds",
			Help:    "Time taken by TMDB API requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"endpoint"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movieview_http_requests_total",
			Help: "Count of served HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movieview_http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	FavoriteChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movieview_favorite_changes_total",
			Help: "Count of favorite additions and removals",
		},
		[]string{"action"},
	)
)

var initOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			CacheOperations,
			UpstreamRequests,
			UpstreamDuration,
			HTTPRequests,
			HTTPDuration,
			FavoriteChanges,
		)
	})
}
