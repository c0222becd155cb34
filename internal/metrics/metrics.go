package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "console_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "route"})
)

// Moderation metrics
var (
	EscalationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_escalations_total",
		Help: "Status escalation attempts by outcome",
	}, []string{"outcome"})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_notifications_total",
		Help: "Notification deliveries by channel and outcome",
	}, []string{"channel", "outcome"})
)

// Stats cache metrics
var (
	StatsCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "console_stats_cache_hits_total",
		Help: "Dashboard reads served from a valid cache",
	})

	StatsCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "console_stats_cache_misses_total",
		Help: "Dashboard reads that went to the remote store",
	})

	StatsCacheStaleTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "console_stats_cache_stale_total",
		Help: "Dashboard reads served from an expired cache after a remote failure",
	})
)

// Escalation outcomes
const (
	OutcomeEscalated = "escalated"
	OutcomeCeiling   = "ceiling"
	OutcomeConflict  = "conflict"
	OutcomeFailed    = "failed"
)

// Notification channels and outcomes
const (
	ChannelEmail = "email"
	ChannelPush  = "push"

	OutcomeSent  = "sent"
	OutcomeError = "error"
)

// Middleware records request counts and latency labelled by the matched route
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
