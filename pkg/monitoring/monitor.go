package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// QueryCounter 练习查询执行结果：executed / rejected / failed
	QueryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "practice_queries_total",
			Help: "Total number of practice queries by outcome",
		},
		[]string{"outcome"},
	)

	AICallCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_provider_calls_total",
			Help: "Total number of content provider calls by operation and result kind",
		},
		[]string{"operation", "kind"},
	)

	AICallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_provider_call_duration_seconds",
			Help:    "Duration of content provider calls including retries",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30},
		},
		[]string{"operation"},
	)
)

const (
	QueryExecuted = "executed"
	QueryRejected = "rejected"
	QueryFailed   = "failed"
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(QueryCounter)
		prometheus.MustRegister(AICallCounter)
		prometheus.MustRegister(AICallDuration)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
