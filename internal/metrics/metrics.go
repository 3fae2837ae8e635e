// Package metrics exposes per-endpoint request counters and latency
// histograms on a dedicated prometheus registry, following the teacher's
// registry-per-component pattern (core/system_health_logging.go).
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry collects the light-wallet server's request-handling metrics.
type Registry struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// New builds a Registry with its own prometheus.Registry, mirroring the
// teacher's per-component registry rather than the global default one.
func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lws_requests_total",
			Help: "Total light-wallet server requests by endpoint.",
		}, []string{"endpoint"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lws_request_errors_total",
			Help: "Total light-wallet server request failures by endpoint and error code.",
		}, []string{"endpoint", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lws_request_duration_seconds",
			Help:    "Request handling latency by endpoint.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
	reg.MustRegister(r.requests, r.errors, r.latency)
	return r
}

// Observe records one request's outcome. code is the empty string on
// success.
func (r *Registry) Observe(endpoint string, code string, elapsed time.Duration) {
	r.requests.WithLabelValues(endpoint).Inc()
	if code != "" {
		r.errors.WithLabelValues(endpoint, code).Inc()
	}
	r.latency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// Handler serves the registry's metrics in the Prometheus exposition
// format, mounted at /metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
