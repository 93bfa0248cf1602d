package telemetry

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/showring/backend/internal/domain/shared"
)

// Metrics owns a private Prometheus registry with the HTTP and business
// collectors of the service.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	operations     *prometheus.CounterVec
	domainEvents   *prometheus.CounterVec
	catalogueItems prometheus.Counter
}

// NewMetrics creates the collectors under namespace ("showring" when empty).
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "showring"
	}
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	m.operations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Business operations by name and outcome code.",
	}, []string{"operation", "outcome"})

	m.domainEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "domain_events_total",
		Help:      "Domain events published, by type.",
	}, []string{"event_type"})

	m.catalogueItems = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalogue_numbers_assigned_total",
		Help:      "Catalogue numbers written by assignment runs.",
	})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.operations,
		m.domainEvents,
		m.catalogueItems,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTPRequest records one finished request. route is the matched
// route template, never the raw path.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordOperation counts an operation outcome: "ok", the domain error code,
// or "error" for anything else.
func (m *Metrics) RecordOperation(operation string, err error) {
	m.operations.WithLabelValues(operation, Outcome(err)).Inc()
}

// RecordCatalogueAssigned adds n freshly written catalogue numbers.
func (m *Metrics) RecordCatalogueAssigned(n int) {
	if n > 0 {
		m.catalogueItems.Add(float64(n))
	}
}

// Outcome maps err onto a low-cardinality label value.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return "error"
}

// EventCounter is a catch-all event handler that counts published events.
type EventCounter struct {
	metrics *Metrics
}

// NewEventCounter creates an EventCounter feeding m.
func NewEventCounter(m *Metrics) *EventCounter {
	return &EventCounter{metrics: m}
}

// Handle implements shared.EventHandler.
func (c *EventCounter) Handle(_ context.Context, event shared.DomainEvent) error {
	c.metrics.domainEvents.WithLabelValues(event.EventType()).Inc()
	return nil
}

// EventTypes subscribes to every event.
func (c *EventCounter) EventTypes() []string {
	return nil
}
