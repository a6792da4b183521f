// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dreamlens",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dreamlens",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"method", "path"},
	)

	imageGenerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dreamlens",
			Subsystem: "images",
			Name:      "generations_total",
			Help:      "Image generation attempts by outcome.",
		},
		[]string{"model", "status"},
	)

	generationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dreamlens",
			Subsystem: "images",
			Name:      "generation_duration_seconds",
			Help:      "Duration of upstream image generation calls.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"model"},
	)

	analysisFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dreamlens",
			Subsystem: "images",
			Name:      "analysis_failures_total",
			Help:      "Dream analyses that failed and were stored as null.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		imageGenerations,
		generationDuration,
		analysisFailures,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency, labelled by route template
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordGeneration counts a generation attempt; status is "success" or "error"
func RecordGeneration(model, status string, duration time.Duration) {
	imageGenerations.WithLabelValues(model, status).Inc()
	if duration > 0 {
		generationDuration.WithLabelValues(model).Observe(duration.Seconds())
	}
}

// RecordAnalysisFailure counts a degraded analysis
func RecordAnalysisFailure() {
	analysisFailures.Inc()
}
