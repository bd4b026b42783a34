// Package metrics - Prometheus metrics for fitting-engine operations
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FittingCalculationDuration tracks end-to-end Calculate() duration.
	FittingCalculationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fitting_calculation_duration_seconds",
		Help:    "Duration of a full fitting attribute-resolution pass",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
	})

	// FittingRAHIterations tracks how many fixed-point iterations the
	// reactive armor hardener loop took per calculation.
	FittingRAHIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fitting_rah_iterations",
		Help:    "Iterations taken by the reactive armor hardener fixed-point loop",
		Buckets: prometheus.LinearBuckets(1, 5, 10), // 1 to 46
	})

	// FittingCapacitorSimSteps tracks the capacitor depletion simulator's
	// step count per calculation.
	FittingCapacitorSimSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fitting_capacitor_sim_steps",
		Help:    "Steps taken by the capacitor depletion simulator",
		Buckets: prometheus.ExponentialBuckets(1, 2, 14), // 1 to ~8192
	})

	// FittingOracleCacheHitsTotal counts Oracle reads served from cache.
	FittingOracleCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitting_oracle_cache_hits_total",
		Help: "Total Oracle reads served from the redis cache decorator",
	})

	// FittingOracleCacheMissesTotal counts Oracle reads that fell through
	// to the underlying store.
	FittingOracleCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitting_oracle_cache_misses_total",
		Help: "Total Oracle reads that missed the redis cache decorator",
	})

	// HTTPRequestsTotal counts fit-calculation HTTP requests by status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fitting_http_requests_total",
		Help: "Total fit-calculation HTTP requests by status code",
	}, []string{"status_code"})

	// HTTPRateLimitedTotal counts requests rejected by the inbound rate limiter.
	HTTPRateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitting_http_rate_limited_total",
		Help: "Total fit-calculation requests rejected by the rate limiter",
	})
)
