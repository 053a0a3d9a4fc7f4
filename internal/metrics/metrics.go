// Package metrics exposes the Prometheus collectors of the catalog service.
//
// Collectors are registered on the default registry via promauto and served by
// promhttp at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route pattern and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamecatalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency by method and route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamecatalog_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// SearchesTotal counts catalog searches by the filter branch taken.
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamecatalog_searches_total",
			Help: "Total number of catalog searches by filter branch",
		},
		[]string{"branch"},
	)

	// FavoriteTogglesTotal counts completed toggles by kind and resulting state.
	FavoriteTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamecatalog_favorite_toggles_total",
			Help: "Total number of favorite toggles by kind and result",
		},
		[]string{"kind", "result"},
	)

	// FavoriteToggleConflictsTotal counts toggles aborted by the store, retried or not.
	FavoriteToggleConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamecatalog_favorite_toggle_conflicts_total",
			Help: "Total number of favorite toggles aborted with a conflict",
		},
		[]string{"kind"},
	)

	// RecommendationSize tracks how many games a recommendation returns.
	RecommendationSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gamecatalog_recommendation_size",
			Help:    "Number of games returned per recommendation",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)
)

// RecordHTTPRequest records one handled request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordSearch records the filter branch of one catalog search.
func RecordSearch(branch string) {
	SearchesTotal.WithLabelValues(branch).Inc()
}

// RecordFavoriteToggle records a completed toggle.
func RecordFavoriteToggle(kind string, added bool) {
	result := "removed"
	if added {
		result = "added"
	}
	FavoriteTogglesTotal.WithLabelValues(kind, result).Inc()
}

// RecordFavoriteConflict records a toggle aborted with a conflict.
func RecordFavoriteConflict(kind string) {
	FavoriteToggleConflictsTotal.WithLabelValues(kind).Inc()
}

// RecordRecommendation records the size of a recommendation.
func RecordRecommendation(n int) {
	RecommendationSize.Observe(float64(n))
}
