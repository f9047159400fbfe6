package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RegisterSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "register_success_total",
		Help: "Total successful register attempts",
	})

	PostsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "posts_created_total",
		Help: "Total posts successfully created",
	})

	LikesToggled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "likes_toggled_total",
		Help: "Total like and unlike operations",
	}, []string{"action"})

	FollowsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "follows_created_total",
		Help: "Total follow relations created",
	})
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(RegisterSuccess)
	prometheus.MustRegister(PostsCreated)
	prometheus.MustRegister(LikesToggled)
	prometheus.MustRegister(FollowsCreated)
}

// Middleware records request duration labeled by method, route and status.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		RequestDuration.WithLabelValues(c.Method(), route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
