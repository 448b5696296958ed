package server

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes a Prometheus registry and instruments inbound requests.
// Implements the Handler interface for registration with a Router.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	handler  http.Handler
}

// NewMetrics creates a registry with the runtime collectors and the inbound request metrics.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reddit_proxy_http_requests_total",
			Help: "Requests served, by status code and method.",
		}, []string{"code", "method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reddit_proxy_http_request_duration_seconds",
			Help:    "Latency of served requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m, nil
}

// Registry returns the registry, for collectors owned by other packages.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware counts and times every request passing through it.
func (m *Metrics) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return promhttp.InstrumentHandlerCounter(m.requests,
			promhttp.InstrumentHandlerDuration(m.duration, next))
	}
}

// Routes returns the HTTP routes this handler serves.
func (m *Metrics) Routes() []string {
	return []string{"/metrics"}
}

// ServeHTTP writes the Prometheus exposition.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
