package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "room_http_requests_total",
			Help: "Total number of HTTP requests processed by the room service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "room_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	activeParticipants = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "room_active_participants",
			Help: "Number of participants currently in the room.",
		},
	)
	sweepsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "room_sweeps_total",
			Help: "Total number of eviction sweep passes.",
		},
	)
	evictionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "room_evictions_total",
			Help: "Total number of participants evicted for staleness.",
		},
	)
	messagesCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "room_messages_created_total",
			Help: "Total number of messages appended to the log.",
		},
		[]string{"type"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "room_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		activeParticipants,
		sweepsTotal,
		evictionsTotal,
		messagesCreatedTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func SetActiveParticipants(n int) {
	activeParticipants.Set(float64(n))
}

func IncSweep() {
	sweepsTotal.Inc()
}

func IncEviction() {
	evictionsTotal.Inc()
}

func IncMessageCreated(msgType string) {
	messagesCreatedTotal.WithLabelValues(msgType).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
