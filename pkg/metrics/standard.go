package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Standard HTTP metrics
	httpRequestDuration *Histogram
	httpRequestCount    *Counter
	httpResponseSize    *Histogram

	// Standard cache metrics, recorded by the cache store
	cacheHits      *Counter
	cacheMisses    *Counter
	cacheEvictions *Counter

	// Ensure standard metrics are initialized only once
	standardMetricsOnce sync.Once
)

// InitStandardMetrics initializes the standard HTTP and cache metrics.
// This function is called automatically by the middleware, but can be called
// explicitly to ensure metrics are registered before use.
// It is safe to call multiple times - subsequent calls are no-ops.
func InitStandardMetrics(namespace string) error {
	var initErr error

	standardMetricsOnce.Do(func() {
		httpRequestDuration, initErr = NewHistogram(HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Labels:    []string{"method", "path", "status_code"},
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		})
		if initErr != nil {
			return
		}

		httpRequestCount, initErr = NewCounter(CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
			Labels:    []string{"method", "path", "status_code"},
		})
		if initErr != nil {
			return
		}

		httpResponseSize, initErr = NewHistogram(HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "HTTP response size in bytes",
			Labels:    []string{"method", "path", "status_code"},
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8), // 100B to ~100MB
		})
		if initErr != nil {
			return
		}

		cacheHits, initErr = NewCounter(CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of cache hits",
			Labels:    []string{"prefix"},
		})
		if initErr != nil {
			return
		}

		cacheMisses, initErr = NewCounter(CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of cache misses",
			Labels:    []string{"prefix"},
		})
		if initErr != nil {
			return
		}

		cacheEvictions, initErr = NewCounter(CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Total number of expired cache entries removed",
			Labels:    []string{"reason"},
		})
	})

	return initErr
}

// RecordCacheHit records a cache hit for the given key prefix.
// Safe to call before initialization; it is a no-op until standard metrics exist.
func RecordCacheHit(prefix string) {
	if cacheHits != nil {
		cacheHits.Inc(prefix)
	}
}

// RecordCacheMiss records a cache miss for the given key prefix.
func RecordCacheMiss(prefix string) {
	if cacheMisses != nil {
		cacheMisses.Inc(prefix)
	}
}

// RecordCacheEviction records an expired-entry removal.
// Reason is "sliding", "absolute", or "janitor".
func RecordCacheEviction(reason string) {
	if cacheEvictions != nil {
		cacheEvictions.Inc(reason)
	}
}
