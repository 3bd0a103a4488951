// Package metrics registers the service's Prometheus collectors and exposes
// gin middleware plus a DocumentStore decorator that feed them.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maxviazov/orgs-directory-service/internal/model"
	"github.com/maxviazov/orgs-directory-service/internal/repository"
)

// Metrics holds all collectors. Each instance owns its registry so tests can build many.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	StoreOperationsTotal   *prometheus.CounterVec
	StoreOperationDuration *prometheus.HistogramVec
	DocumentOrgs           prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orgs_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orgs_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		StoreOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orgs_store_operations_total",
				Help: "Document store operations by outcome",
			},
			[]string{"operation", "status"},
		),
		StoreOperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orgs_store_operation_duration_seconds",
				Help:    "Document store operation duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"operation"},
		),
		DocumentOrgs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orgs_document_orgs",
			Help: "Organizations in the document at the last load or save",
		}),
	}
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.StoreOperationsTotal,
		m.StoreOperationDuration,
		m.DocumentOrgs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per matched route template,
// so /orgs/:orgId stays one series regardless of ids.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

type instrumentedStore struct {
	next repository.DocumentStore
	m    *Metrics
}

// InstrumentStore wraps a DocumentStore so every call is counted and timed.
func (m *Metrics) InstrumentStore(next repository.DocumentStore) repository.DocumentStore {
	return &instrumentedStore{next: next, m: m}
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.m.StoreOperationsTotal.WithLabelValues(op, status).Inc()
	s.m.StoreOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *instrumentedStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ping(ctx)
	s.observe("ping", start, err)
	return err
}

func (s *instrumentedStore) Load(ctx context.Context) (model.Document, error) {
	start := time.Now()
	doc, err := s.next.Load(ctx)
	s.observe("load", start, err)
	if err == nil {
		s.m.DocumentOrgs.Set(float64(len(doc.Orgs)))
	}
	return doc, err
}

func (s *instrumentedStore) Save(ctx context.Context, doc model.Document) error {
	start := time.Now()
	err := s.next.Save(ctx, doc)
	s.observe("save", start, err)
	if err == nil {
		s.m.DocumentOrgs.Set(float64(len(doc.Orgs)))
	}
	return err
}
