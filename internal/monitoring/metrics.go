package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the host. Each Metrics value
// carries its own registry so tests can build them freely.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Session metrics
	SessionsActive   prometheus.Gauge
	SessionsSaved    prometheus.Counter
	SessionsRestored prometheus.Counter
	DirectivesTotal  *prometheus.CounterVec

	// Capability metrics
	CapabilityCalls    *prometheus.CounterVec
	CapabilityDuration *prometheus.HistogramVec

	// Rendering metrics
	RendersTotal *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a metrics collector.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry:  registry,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cantus_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cantus_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cantus_sessions_active",
				Help: "Number of live sessions",
			},
		),
		SessionsSaved: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cantus_sessions_saved_total",
				Help: "Total number of session snapshots written",
			},
		),
		SessionsRestored: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cantus_sessions_restored_total",
				Help: "Total number of session snapshots restored",
			},
		),
		DirectivesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cantus_directives_total",
				Help: "Total number of session directives executed",
			},
			[]string{"name", "status"},
		),

		CapabilityCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cantus_capability_calls_total",
				Help: "Total number of capability tool calls",
			},
			[]string{"tool", "status"},
		),
		CapabilityDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cantus_capability_duration_seconds",
				Help:    "Capability tool call duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"tool"},
		),

		RendersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cantus_renders_total",
				Help: "Total number of figures rendered",
			},
			[]string{"format"},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cantus_ws_connections",
				Help: "Number of open websocket stream connections",
			},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cantus_uptime_seconds",
				Help: "Host uptime in seconds",
			},
		),
	}
}

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records HTTP request metrics for gin.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		m.Uptime.Set(time.Since(m.startTime).Seconds())
		status := strconv.Itoa(c.Writer.Status())
		m.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordDirective records one directive execution.
func (m *Metrics) RecordDirective(name string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.DirectivesTotal.WithLabelValues(name, status).Inc()
}

// RecordCapabilityCall records one capability tool call.
func (m *Metrics) RecordCapabilityCall(tool string, success bool, duration time.Duration) {
	status := "ok"
	if !success {
		status = "error"
	}
	m.CapabilityCalls.WithLabelValues(tool, status).Inc()
	m.CapabilityDuration.WithLabelValues(tool).Observe(duration.Seconds())
}
