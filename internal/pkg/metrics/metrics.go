package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scheduler"

// Outbound message results
const (
	ResultSent   = "sent"
	ResultFailed = "failed"
)

// Metrics owns the collectors of the process on a dedicated registry
type Metrics struct {
	registry *prometheus.Registry

	webhookEvents         *prometheus.CounterVec
	outboundMessages      *prometheus.CounterVec
	assignmentTransitions *prometheus.CounterVec
	httpRequests          *prometheus.CounterVec
	httpDuration          *prometheus.HistogramVec
}

// New registers all collectors, including the Go runtime and process ones
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Webhook events received, by event name.",
		}, []string{"event"}),
		outboundMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbound_messages_total",
			Help:      "Outbound WhatsApp messages, by result.",
		}, []string{"result"}),
		assignmentTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignment_transitions_total",
			Help:      "Assignment status changes, by source and target status.",
		}, []string{"from", "to"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.webhookEvents,
		m.outboundMessages,
		m.assignmentTransitions,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// WebhookReceived counts one inbound webhook event
func (m *Metrics) WebhookReceived(event string) {
	m.webhookEvents.WithLabelValues(event).Inc()
}

// MessageSent counts one outbound message attempt
func (m *Metrics) MessageSent(ok bool) {
	result := ResultFailed
	if ok {
		result = ResultSent
	}
	m.outboundMessages.WithLabelValues(result).Inc()
}

// AssignmentTransition counts one status change
func (m *Metrics) AssignmentTransition(from, to string) {
	m.assignmentTransitions.WithLabelValues(from, to).Inc()
}

// GinMiddleware records count and latency of every routed request
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
