package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cove_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cove_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cove_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cove_messages_total",
			Help: "Total number of chat messages dispatched.",
		},
		[]string{"kind"},
	)
	retractionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cove_retractions_total",
			Help: "Total number of message retractions broadcast.",
		},
	)
	evictionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cove_evictions_total",
			Help: "Total number of admin-driven session evictions.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		wsActiveConnections,
		messagesTotal,
		retractionsTotal,
		evictionsTotal,
	)
}

// HTTPMetricsMiddleware records request counts and latencies per route.
func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler exposes the prometheus registry.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// WSConnOpened increments the active websocket connection gauge.
func WSConnOpened() { wsActiveConnections.Inc() }

// WSConnClosed decrements the active websocket connection gauge.
func WSConnClosed() { wsActiveConnections.Dec() }

// IncMessage counts a dispatched message by kind ("room" or "direct").
func IncMessage(kind string) { messagesTotal.WithLabelValues(kind).Inc() }

// IncRetraction counts a retraction broadcast.
func IncRetraction() { retractionsTotal.Inc() }

// IncEviction counts an admin-driven eviction.
func IncEviction() { evictionsTotal.Inc() }
