package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "isuumo"

// PoolStats son las estadísticas del pool que se exponen como gauges.
// *pgxpool.Stat lo cumple.
type PoolStats interface {
	AcquiredConns() int32
	IdleConns() int32
	TotalConns() int32
	MaxConns() int32
}

// Metrics agrupa los collectors de la API sobre un registry propio.
type Metrics struct {
	registry *prometheus.Registry
	factory  promauto.Factory
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New crea el registry con métricas de runtime y de HTTP.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		factory:  factory,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry expone el registry (útil en tests).
func (metrics *Metrics) Registry() *prometheus.Registry {
	return metrics.registry
}

// Middleware mide cada request usando el patrón de ruta de chi como label,
// así /api/chair/{id} no genera una serie por id.
func (metrics *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if routeContext := chi.RouteContext(r.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := wrapped.Status()
		if status == 0 {
			status = http.StatusOK
		}

		metrics.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// RegisterPool expone el estado del pool de conexiones. Llamar una sola vez.
func (metrics *Metrics) RegisterPool(stat func() PoolStats) {
	gauge := func(name, help string, value func(PoolStats) int32) {
		metrics.factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db_pool",
			Name:      name,
			Help:      help,
		}, func() float64 {
			return float64(value(stat()))
		})
	}

	gauge("acquired_conns", "Connections currently in use.", PoolStats.AcquiredConns)
	gauge("idle_conns", "Idle connections in the pool.", PoolStats.IdleConns)
	gauge("total_conns", "Total connections in the pool.", PoolStats.TotalConns)
	gauge("max_conns", "Maximum pool size.", PoolStats.MaxConns)
}

// Handler sirve /metrics en formato Prometheus.
func (metrics *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{})
}
