// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "vidtube/docs" // swagger docs
	"vidtube/internal/bootstrap"
	"vidtube/internal/config"
	"vidtube/internal/database"
	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/notifications"
	"vidtube/internal/repository"
	"vidtube/internal/service"
	"vidtube/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	viewCounter    *service.ViewCounter
	likeService    *service.LikeService
	tweetService   *service.TweetService
	videoService   *service.VideoService
}

// NewServer connects to the database, Redis and media storage and wires the
// services on top of them.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SeedDemoData: cfg.SeedDemoData})
	if err != nil {
		return nil, err
	}

	backend, err := storage.NewBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("media storage init failed: %w", err)
	}
	media := storage.NewMediaHost(backend, cfg.UploadTmpDir)

	return NewServerWithDeps(cfg, db, redisClient, media)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; rate limiting, caching and notifications then
// degrade to no-ops.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, media service.MediaUploader) (*Server, error) {
	if db == nil {
		return nil, errors.New("server requires a database")
	}

	userRepo := repository.NewUserRepository(db, redisClient)
	videoRepo := repository.NewVideoRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	historyRepo := repository.NewWatchHistoryRepository(db)

	notifier := notifications.NewNotifier(redisClient)
	viewCounter := service.NewViewCounter(videoRepo, historyRepo, cfg.ViewQueueSize)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("vidtube-api"),
		notifier:       notifier,
		hub:            notifications.NewHub(),
		viewCounter:    viewCounter,
		likeService:    service.NewLikeService(likeRepo, videoRepo, notifier),
		tweetService:   service.NewTweetService(tweetRepo, userRepo, notifier),
		videoService:   service.NewVideoService(videoRepo, userRepo, media, viewCounter, notifier),
	}
	return s, nil
}

// App builds the Fiber application with middleware and routes. It is built
// once and reused.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	bodyLimit := s.config.MaxUploadBytes()
	if bodyLimit <= 0 {
		bodyLimit = 4 * 1024 * 1024
	}

	app := fiber.New(fiber.Config{
		AppName:      "VidTube API",
		BodyLimit:    bodyLimit,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// errorHandler renders errors that escaped a handler with the error envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		appErr := &models.AppError{Code: models.CodeInternal, Message: fe.Message}
		switch fe.Code {
		case fiber.StatusNotFound:
			appErr.Code = models.CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
			appErr.Code = models.CodeInvalidArgument
		case fiber.StatusUnauthorized:
			appErr.Code = models.CodeUnauthenticated
		case fiber.StatusForbidden:
			appErr.Code = models.CodePermissionDenied
		case fiber.StatusTooManyRequests:
			appErr.Code = models.CodeTooManyRequests
		}
		if appErr.Code != models.CodeInternal {
			return models.RespondWithError(c, appErr)
		}
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
		slog.String("path", c.Path()), slog.String("error", err.Error()))
	return models.RespondWithError(c, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Tracing span per request, before the context middleware copies traceID
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS before anything that can short-circuit so errors carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, models.NewTooManyRequestsError("Too many requests, please try again later."))
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	if s.config.MediaDriver == config.MediaDriverLocal {
		app.Static("/media", s.config.MediaLocalDir)
	}

	api := app.Group("/api/v1")

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Runtime dashboard, kept out of production
	if !s.config.IsProduction() {
		api.Get("/metrics/dashboard", monitor.New(monitor.Config{
			Title: "VidTube Metrics",
		}))
	}

	secret := s.config.JWTSecret
	authRequired := middleware.AuthRequired(secret)

	// Like routes
	likes := api.Group("/likes", authRequired)
	likes.Post("/toggle/v/:videoId", middleware.RateLimit(s.redis, 60, time.Minute, "like_toggle"), s.ToggleVideoLike)
	likes.Post("/toggle/c/:commentId", middleware.RateLimit(s.redis, 60, time.Minute, "like_toggle"), s.ToggleCommentLike)
	likes.Post("/toggle/t/:tweetId", middleware.RateLimit(s.redis, 60, time.Minute, "like_toggle"), s.ToggleTweetLike)
	likes.Get("/videos", s.GetLikedVideos)

	// Tweet routes; the listing is public
	tweets := api.Group("/tweets")
	tweets.Get("/user/:userId", s.GetUserTweets)
	tweets.Post("/", authRequired, middleware.RateLimit(s.redis, 10, time.Minute, "create_tweet"), s.CreateTweet)
	tweets.Patch("/:tweetId", authRequired, s.UpdateTweet)
	tweets.Delete("/:tweetId", authRequired, s.DeleteTweet)

	// Video routes. Specific paths before /:videoId.
	videos := api.Group("/videos")
	videos.Get("/", s.GetAllVideos)
	videos.Post("/", authRequired, middleware.RateLimit(s.redis, 5, 10*time.Minute, "publish_video"), s.PublishVideo)
	videos.Patch("/toggle/publish/:videoId", authRequired, s.TogglePublishStatus)
	videos.Get("/:videoId", middleware.OptionalAuth(secret), s.GetVideoByID)
	videos.Patch("/:videoId", authRequired, s.UpdateVideo)
	videos.Delete("/:videoId", authRequired, s.DeleteVideo)

	// Notification stream
	api.Get("/ws", middleware.WebSocketAuthRequired(secret), s.WebsocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional; without it the service runs degraded.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the background workers and listens on the configured port.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := s.App()
	s.viewCounter.Start()

	go func() {
		if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
			middleware.Logger.Error("failed to start notification wiring", slog.String("error", err.Error()))
		}
	}()

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown stops accepting requests, drains the view counter and closes
// connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.viewCounter.Stop(ctx); err != nil {
		middleware.Logger.Warn("view counter did not drain", slog.String("error", err.Error()))
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down notification hub", slog.String("error", err.Error()))
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
