package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/abduss/storeit/internal/filetype"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	initOnce sync.Once

	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storeit",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storeit",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	uploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storeit",
		Name:      "uploads_total",
		Help:      "Stored uploads by file type.",
	}, []string{"type"})

	uploadBytesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storeit",
		Name:      "upload_bytes_total",
		Help:      "Stored upload bytes by file type.",
	}, []string{"type"})
)

// InitMetrics registers the collectors with the default registry. Safe to
// call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(requestsTotal, requestDuration, uploadsTotal, uploadBytesTotal)
	})
}

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveUpload counts one stored upload.
func ObserveUpload(t filetype.Type, sizeBytes int64) {
	uploadsTotal.WithLabelValues(string(t)).Inc()
	if sizeBytes > 0 {
		uploadBytesTotal.WithLabelValues(string(t)).Add(float64(sizeBytes))
	}
}

// Register attaches the Prometheus metrics endpoint to the router.
func Register(router *gin.Engine, path string) {
	router.GET(path, gin.WrapH(promhttp.Handler()))
}
