package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellbeing_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wellbeing_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	scoringTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellbeing_scoring_total",
			Help: "Survey submissions scored, by source (ai or fallback)",
		},
		[]string{"source"},
	)

	scoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wellbeing_scoring_duration_seconds",
			Help:    "Time spent resolving a score",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"source"},
	)

	storeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellbeing_store_failures_total",
			Help: "Document store operations that failed and were skipped",
		},
		[]string{"operation"},
	)
)

// ObserveScoring records one resolved submission.
func ObserveScoring(source string, elapsed time.Duration) {
	scoringTotal.WithLabelValues(source).Inc()
	scoringDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// StoreFailure counts a swallowed persistence error.
func StoreFailure(operation string) {
	storeFailures.WithLabelValues(operation).Inc()
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
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
