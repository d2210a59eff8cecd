// Package metrics exposes Prometheus collectors for the jobs-dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ViewRebuilds counts full view reconciliations (cache misses, forced
	// refreshes, and staleness expiries).
	ViewRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobs_dashboard_view_rebuilds_total",
		Help: "Total number of job view cache rebuilds",
	})

	// CacheHits counts reads served from the cached view without a rebuild.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobs_dashboard_view_cache_hits_total",
		Help: "Total number of job view reads served from cache",
	})

	// StatusUpdates counts review status writes.
	StatusUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobs_dashboard_status_updates_total",
		Help: "Total number of job status updates",
	})

	// RequestDuration observes HTTP request latency per route and status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jobs_dashboard_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
