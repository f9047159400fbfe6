package server

import (
	"time"

	"github.com/Abby966/social-media-API/internal/auth"
	"github.com/Abby966/social-media-API/internal/comment"
	"github.com/Abby966/social-media-API/internal/config"
	"github.com/Abby966/social-media-API/internal/feed"
	"github.com/Abby966/social-media-API/internal/follow"
	"github.com/Abby966/social-media-API/internal/media"
	"github.com/Abby966/social-media-API/internal/metrics"
	"github.com/Abby966/social-media-API/internal/notify"
	"github.com/Abby966/social-media-API/internal/post"
	"github.com/Abby966/social-media-API/internal/ratelimit"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Notify *notify.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(metrics.Middleware())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Notify: notify.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", metrics.Handler())

	requireAuth := auth.JWTMiddleware(s.Cfg.JWTSecret)
	optionalAuth := auth.OptionalJWT(s.Cfg.JWTSecret)
	limit := ratelimit.New(s.Redis, s.Cfg.RateLimit, time.Duration(s.Cfg.RateWindowSecs)*time.Second).Middleware()

	mediaSvc, err := media.NewService(s.DB, s.Cfg)
	if err != nil {
		logrus.WithError(err).Warn("media storage unavailable")
		unconfigured := s.Cfg
		unconfigured.MinioEndpoint = ""
		mediaSvc, _ = media.NewService(s.DB, unconfigured)
	}

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB), requireAuth)
	post.RegisterRoutes(s.App.Group("/posts"), post.NewService(s.DB, s.Notify), requireAuth, optionalAuth, limit, s.Cfg.PageSize)
	comment.RegisterRoutes(s.App.Group("/comments"), comment.NewService(s.DB, s.Notify), requireAuth, optionalAuth, limit, s.Cfg.PageSize)
	follow.RegisterRoutes(s.App.Group("/follow"), follow.NewService(s.DB, s.Notify), requireAuth, limit)
	feed.RegisterRoutes(s.App.Group("/feed"), feed.NewService(s.DB), requireAuth, s.Cfg.PageSize)
	media.RegisterRoutes(s.App.Group("/media"), mediaSvc, requireAuth, limit)
	notify.RegisterRoutes(s.App.Group("/notify"), s.Notify, requireAuth)
}
