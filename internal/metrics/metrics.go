package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "volunteerhub"

// Metrics holds all Prometheus collectors for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	usersRegistered     prometheus.Counter
	applicationsCreated prometheus.Counter
	applicationStatus   *prometheus.CounterVec
	certificatesIssued  prometheus.Counter
	sideEffectFailures  *prometheus.CounterVec
	emailsSent          *prometheus.CounterVec
}

// New creates the collectors on a dedicated registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "path"}),
		usersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "Total number of registered accounts.",
		}),
		applicationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applications_created_total",
			Help:      "Total number of volunteer applications submitted.",
		}),
		applicationStatus: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "application_transitions_total",
			Help:      "Application status transitions by target status.",
		}, []string{"status"}),
		certificatesIssued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certificates_issued_total",
			Help:      "Total number of certificates issued.",
		}),
		sideEffectFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "side_effect_failures_total",
			Help:      "Failures of best-effort side effects after commit.",
		}, []string{"kind"}),
		emailsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "email",
			Name:      "messages_total",
			Help:      "Outgoing email messages by result.",
		}, []string{"template", "result"}),
	}
}

// Registry returns the registry backing the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		m.httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) UserRegistered() {
	if m == nil {
		return
	}
	m.usersRegistered.Inc()
}

func (m *Metrics) ApplicationCreated() {
	if m == nil {
		return
	}
	m.applicationsCreated.Inc()
}

func (m *Metrics) ApplicationTransitioned(status string) {
	if m == nil {
		return
	}
	m.applicationStatus.WithLabelValues(status).Inc()
}

func (m *Metrics) CertificateIssued() {
	if m == nil {
		return
	}
	m.certificatesIssued.Inc()
}

// SideEffectFailed counts a post-commit failure such as PDF rendering.
func (m *Metrics) SideEffectFailed(kind string) {
	if m == nil {
		return
	}
	m.sideEffectFailures.WithLabelValues(kind).Inc()
}

// EmailResult counts a delivery attempt. result is one of sent, failed or dropped.
func (m *Metrics) EmailResult(template, result string) {
	if m == nil {
		return
	}
	m.emailsSent.WithLabelValues(template, result).Inc()
}
