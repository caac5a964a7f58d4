// Package observability exposes Prometheus metrics for the HTTP API and the catalog.
package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for authentication metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics contains the service's Prometheus collectors.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AuthAttempts    *prometheus.CounterVec
	CatalogWrites   *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a private registry with Go and process collectors plus
// the service metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gamecatalog_http_requests_total",
				Help: "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gamecatalog_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		AuthAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gamecatalog_auth_attempts_total",
				Help: "Login and token checks by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		CatalogWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gamecatalog_catalog_writes_total",
				Help: "Successful catalog writes by entity and operation",
			},
			[]string{"entity", "op"},
		),
		registry: registry,
	}

	registry.MustRegister(m.RequestsTotal, m.RequestDuration, m.AuthAttempts, m.CatalogWrites)
	return m
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordAuth counts an authentication attempt of the given kind, such as "login".
func (m *Metrics) RecordAuth(kind, outcome string) {
	m.AuthAttempts.WithLabelValues(kind, outcome).Inc()
}

// RecordWrite counts a committed catalog write.
func (m *Metrics) RecordWrite(entity, op string) {
	m.CatalogWrites.WithLabelValues(entity, op).Inc()
}

// Middleware records request count and latency per matched route.
// Unmatched requests share the "unmatched" route label to bound cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
