// Package metrics provides Prometheus metrics collection with standardized
// naming conventions and HTTP middleware for observability. It supports
// counters, gauges, and histograms with label validation, plus standard
// request and cache metrics used across the forum backend.
//
// Example usage:
//
//	// Initialize metrics with configuration
//	if err := metrics.Init(cfg.Metrics); err != nil {
//	    log.Fatal(err)
//	}
//	defer metrics.Shutdown(context.Background())
//
//	counter, _ := metrics.NewCounter(metrics.CounterOpts{
//	    Namespace: "forum",
//	    Subsystem: "cache",
//	    Name:      "hits_total",
//	    Help:      "Total number of cache hits",
//	    Labels:    []string{"entity"},
//	})
//	counter.Inc("posts")
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// registry is the global Prometheus registry for all metrics
	registry *prometheus.Registry

	// registryMu protects concurrent access to registry initialization
	registryMu sync.RWMutex

	// initialized tracks whether Init() has been called
	initialized bool

	// server is the HTTP server for the metrics endpoint
	server *http.Server

	// serverMu protects concurrent access to server
	serverMu sync.Mutex
)

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled   bool   // Whether metrics collection is enabled
	Port      int    // HTTP server port for /metrics endpoint
	Path      string // HTTP path for metrics endpoint
	Namespace string // Metric prefix/namespace
}

// Init initializes the metrics system with the provided configuration.
// It creates a new Prometheus registry and starts an HTTP server on the
// configured port and path to expose metrics.
//
// This function is safe to call multiple times - subsequent calls are no-ops.
func Init(cfg MetricsConfig) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	if initialized {
		return nil
	}

	if !cfg.Enabled {
		// Metrics disabled; keep a registry so collectors still register cleanly
		registry = prometheus.NewRegistry()
		initialized = true
		return nil
	}

	registry = prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	serverMu.Lock()
	server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	srv := server
	serverMu.Unlock()

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// Metrics are non-critical; don't crash the service
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	initialized = true
	return nil
}

// Shutdown gracefully shuts down the metrics HTTP server.
func Shutdown(ctx context.Context) error {
	serverMu.Lock()
	defer serverMu.Unlock()

	if server == nil {
		return nil
	}

	return server.Shutdown(ctx)
}

// Registry returns the global Prometheus registry.
// Returns nil if Init() has not been called.
func Registry() *prometheus.Registry {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry
}

// IsInitialized returns true if Init() has been called successfully.
func IsInitialized() bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return initialized
}
