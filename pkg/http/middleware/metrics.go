package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	applogger "ReconFlow/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reconflow",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reconflow",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"route", "method", "status"},
	)

	httpInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "reconflow",
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests",
		},
		[]string{"route", "method"},
	)

	httpResponseSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reconflow",
			Name:      "http_response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   []float64{200, 500, 1_000, 2_000, 5_000, 10_000, 50_000, 100_000, 500_000, 1_000_000},
		},
		[]string{"route", "method", "status"},
	)

	regOnce sync.Once
)

// Metrics records per-request counters, latency, and size. The route
// label uses the raw URL path, which is fine here because the API
// exposes a small fixed route set. Slow requests and 5xx responses are
// additionally logged through l.
func Metrics(l *applogger.Logger, slowThreshold time.Duration) func(http.Handler) http.Handler {
	regOnce.Do(func() {
		prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpInFlight, httpResponseSize)
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, method := r.URL.Path, r.Method

			httpInFlight.WithLabelValues(route, method).Inc()
			start := time.Now()

			rw := &countingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			elapsed := time.Since(start)
			status := strconv.Itoa(rw.status)

			httpRequestsTotal.WithLabelValues(route, method, status).Inc()
			httpRequestDuration.WithLabelValues(route, method, status).Observe(elapsed.Seconds())
			httpResponseSize.WithLabelValues(route, method, status).Observe(float64(rw.written))
			httpInFlight.WithLabelValues(route, method).Dec()

			if l == nil {
				return
			}
			fields := []applogger.Field{
				applogger.String("route", route),
				applogger.String("method", method),
				applogger.String("status", status),
				applogger.Duration("duration", elapsed),
				applogger.Int("bytes", rw.written),
			}
			switch {
			case rw.status >= 500:
				l.Error("http request failed", fields...)
			case slowThreshold > 0 && elapsed >= slowThreshold:
				l.Warn("http request slow", fields...)
			}
		})
	}
}

type countingWriter struct {
	http.ResponseWriter
	status  int
	written int
}

func (w *countingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *countingWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}
