// Package health exposes liveness and readiness probes for the forum
// service. Infrastructure components (database pool, storage backend)
// register checkers; readiness aggregates them with per-check timeouts and
// short result caching so probe traffic cannot stampede the dependencies.
//
// Example usage:
//
//	h := health.New()
//	h.RegisterChecker("database", dbPool)
//	mux.HandleFunc("GET /health/live", h.LivenessHandler())
//	mux.HandleFunc("GET /health/ready", h.ReadinessHandler())
package health

import (
	"context"
	"sync"
	"time"
)

// Checker verifies one infrastructure component. Implementations must
// respect the context deadline.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a plain function to the Checker interface.
type CheckerFunc func(ctx context.Context) error

// Check implements Checker.
func (f CheckerFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// Health aggregates named component checkers.
type Health struct {
	mu       sync.RWMutex
	checkers map[string]Checker

	cacheMu      sync.RWMutex
	cachedResult *Result
	cacheExpiry  time.Time
	cacheTTL     time.Duration

	checkTimeout time.Duration
}

// Result is the aggregated readiness outcome.
type Result struct {
	Status string                 `json:"status"` // "healthy" or "unhealthy"
	Checks map[string]CheckResult `json:"checks"`
}

// CheckResult is the outcome of a single component check.
type CheckResult struct {
	Status  string `json:"status"`            // "ok" or "error"
	Message string `json:"message,omitempty"` // error detail when status is "error"
}

// New creates a Health with a 5 second check timeout and 1 second result cache.
func New() *Health {
	return NewWithConfig(5*time.Second, time.Second)
}

// NewWithConfig creates a Health with explicit timeout and cache TTL.
func NewWithConfig(checkTimeout, cacheTTL time.Duration) *Health {
	return &Health{
		checkers:     make(map[string]Checker),
		checkTimeout: checkTimeout,
		cacheTTL:     cacheTTL,
	}
}

// RegisterChecker registers a checker under name, replacing any existing one.
func (h *Health) RegisterChecker(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// Check runs all registered checkers and returns the aggregated result.
// Results are cached for the configured TTL.
func (h *Health) Check(ctx context.Context) *Result {
	h.cacheMu.RLock()
	if h.cachedResult != nil && time.Now().Before(h.cacheExpiry) {
		result := h.cachedResult
		h.cacheMu.RUnlock()
		return result
	}
	h.cacheMu.RUnlock()

	result := h.executeChecks(ctx)

	h.cacheMu.Lock()
	h.cachedResult = result
	h.cacheExpiry = time.Now().Add(h.cacheTTL)
	h.cacheMu.Unlock()

	return result
}

func (h *Health) executeChecks(ctx context.Context) *Result {
	h.mu.RLock()
	checkers := make(map[string]Checker, len(h.checkers))
	for name, checker := range h.checkers {
		checkers[name] = checker
	}
	h.mu.RUnlock()

	if len(checkers) == 0 {
		return &Result{Status: "healthy", Checks: make(map[string]CheckResult)}
	}

	type checkResponse struct {
		name   string
		result CheckResult
	}

	resultChan := make(chan checkResponse, len(checkers))
	var wg sync.WaitGroup

	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()

			checkCtx := ctx
			if _, hasDeadline := ctx.Deadline(); !hasDeadline {
				var cancel context.CancelFunc
				checkCtx, cancel = context.WithTimeout(ctx, h.checkTimeout)
				defer cancel()
			}

			result := CheckResult{Status: "ok"}
			if err := checker.Check(checkCtx); err != nil {
				result = CheckResult{Status: "error", Message: err.Error()}
			}

			resultChan <- checkResponse{name: name, result: result}
		}(name, checker)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	checks := make(map[string]CheckResult, len(checkers))
	status := "healthy"
	for response := range resultChan {
		checks[response.name] = response.result
		if response.result.Status != "ok" {
			status = "unhealthy"
		}
	}

	return &Result{Status: status, Checks: checks}
}

// ClearCache drops the cached result so the next Check re-executes.
func (h *Health) ClearCache() {
	h.cacheMu.Lock()
	defer h.cacheMu.Unlock()
	h.cachedResult = nil
	h.cacheExpiry = time.Time{}
}
