package metrics

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the constant labels applied to every metric.
type Config struct {
	ServiceName string
	Environment string
}

func (c Config) constLabels() prometheus.Labels {
	serviceName := strings.TrimSpace(c.ServiceName)
	if serviceName == "" {
		serviceName = "ar-engine"
	}
	environment := strings.TrimSpace(c.Environment)
	if environment == "" {
		environment = "unknown"
	}
	return prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}
}

// HTTPMetrics captures inbound HTTP request health signals.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestsInBody  *prometheus.HistogramVec
}

var (
	httpMetricsOnce sync.Once
	httpMetrics     *HTTPMetrics
)

// NewHTTPMetrics returns the singleton HTTP metrics registry.
func NewHTTPMetrics(cfg Config) *HTTPMetrics {
	httpMetricsOnce.Do(func() {
		httpMetrics = newHTTPMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return httpMetrics
}

// ResetHTTPMetricsForTest resets the HTTP metrics singleton for tests.
func ResetHTTPMetricsForTest() {
	httpMetricsOnce = sync.Once{}
	httpMetrics = nil
}

func newHTTPMetrics(registerer prometheus.Registerer, cfg Config) *HTTPMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	constLabels := cfg.constLabels()

	requestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "arengine_http_requests_total",
		Help:        "HTTP requests by route, method and status class.",
		ConstLabels: constLabels,
	}, []string{"route", "method", "status"})
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "arengine_http_request_duration_seconds",
		Help:        "HTTP request latency by route and method.",
		Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		ConstLabels: constLabels,
	}, []string{"route", "method"})
	requestsInBody := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "arengine_http_request_size_bytes",
		Help:        "HTTP request body size by route.",
		Buckets:     prometheus.ExponentialBuckets(128, 4, 8),
		ConstLabels: constLabels,
	}, []string{"route"})

	registerer.MustRegister(requestsTotal, requestDuration, requestsInBody)

	return &HTTPMetrics{
		requestsTotal:   requestsTotal,
		requestDuration: requestDuration,
		requestsInBody:  requestsInBody,
	}
}

// GinMiddleware records request count, latency and body size per route.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.requestsTotal.WithLabelValues(route, method, status).Inc()
		m.requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
		if size := c.Request.ContentLength; size > 0 {
			m.requestsInBody.WithLabelValues(route).Observe(float64(size))
		}
	}
}
