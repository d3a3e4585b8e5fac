package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// HTTPMiddleware is an HTTP middleware that automatically records standard
// metrics for HTTP requests including duration, count, and response size.
// It initializes standard metrics on first use with the provided namespace.
func HTTPMiddleware(namespace string) func(http.Handler) http.Handler {
	if err := InitStandardMetrics(namespace); err != nil {
		// Metrics are non-critical; log and continue
		fmt.Printf("failed to initialize standard metrics: %v\n", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &metricsResponseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			statusCode := strconv.Itoa(wrapped.statusCode)

			if httpRequestDuration != nil {
				httpRequestDuration.Observe(duration, r.Method, r.URL.Path, statusCode)
			}

			if httpRequestCount != nil {
				httpRequestCount.Inc(r.Method, r.URL.Path, statusCode)
			}

			if httpResponseSize != nil {
				httpResponseSize.Observe(float64(wrapped.bytesWritten), r.Method, r.URL.Path, statusCode)
			}
		})
	}
}

// metricsResponseWriter wraps http.ResponseWriter to capture status code and response size.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	written      bool
}

func (m *metricsResponseWriter) WriteHeader(code int) {
	if !m.written {
		m.statusCode = code
		m.written = true
		m.ResponseWriter.WriteHeader(code)
	}
}

func (m *metricsResponseWriter) Write(b []byte) (int, error) {
	if !m.written {
		m.WriteHeader(http.StatusOK)
	}
	n, err := m.ResponseWriter.Write(b)
	m.bytesWritten += n
	return n, err
}
