// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduimpact_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eduimpact_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	Predictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduimpact_predictions_total",
			Help: "Predictions served, by category and narrative source",
		},
		[]string{"category", "source"},
	)

	LLMAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduimpact_llm_attempts_total",
			Help: "Chat completion attempts, by purpose and outcome",
		},
		[]string{"purpose", "outcome"},
	)

	ChatReplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduimpact_chat_replies_total",
			Help: "Chat replies, by source (ai, fallback, error)",
		},
		[]string{"source"},
	)
)

var registerOnce sync.Once

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter, RequestDuration, Predictions, LLMAttempts, ChatReplies)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// unmatchedRoute labels requests no route matched, so arbitrary paths do not
// each create a new series.
const unmatchedRoute = "unmatched"

// Middleware records request counts and durations labelled by chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		RequestCounter.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
