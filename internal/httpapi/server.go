package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"casesearch/internal/config"
	"casesearch/pkg/cache"
	"casesearch/pkg/pipeline"
	"casesearch/pkg/reasoner"
)

// Server holds the collaborators every handler needs; handlers are methods
// on it so they share the engine, reasoner backend, and rate-limit cache
// without reaching for package-level globals.
type Server struct {
	engine          *pipeline.Engine
	reasonerBackend reasoner.Backend
	cache           cache.Cache
	cfg             *config.Config
	logger          *zap.Logger
}

// New builds the fiber app and registers every route spec.md §6 names,
// following the teacher's cmd/server bootstrap shape: recover, request
// logging, helmet, cors globally, then route groups with per-route
// middleware for auth and rate limiting.
func New(cfg *config.Config, engine *pipeline.Engine, reasonerBackend reasoner.Backend, ch cache.Cache, zlog *zap.Logger) *fiber.App {
	if zlog == nil {
		zlog = zap.NewNop()
	}

	s := &Server{
		engine:          engine,
		reasonerBackend: reasonerBackend,
		cache:           ch,
		cfg:             cfg,
		logger:          zlog,
	}

	app := fiber.New(fiber.Config{
		ServerHeader: "Case-Search",
		AppName:      "Case Search Retrieval Core",
		ErrorHandler: newErrorHandler(zlog),
		BodyLimit:    int(cfg.Server.MaxRequestSize),
	})

	app.Use(recover.New())
	app.Use(requestLogger(zlog))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))

	rateLimit := ipRateLimit("search", func(key string) *reasoner.RateBucket {
		window := time.Duration(cfg.RateLimit.SearchIPWindowSec) * time.Second
		return reasoner.NewRateBucket(ch, key, window, cfg.RateLimit.SearchIPLimit)
	})

	pipelineTimeout := requestTimeout(time.Duration(cfg.Pipeline.MaxElapsedMs+2000) * time.Millisecond)

	app.Get("/health", s.getHealth)

	api := app.Group("/api")
	api.Post("/search", pipelineTimeout, rateLimit, s.postSearch)
	api.Post("/search/plan", pipelineTimeout, rateLimit, s.postSearchPlan)
	api.Post("/search/finalize", pipelineTimeout, requireJWT(cfg.Auth.JWTSecret), s.postSearchFinalize)
	api.Get("/health/bedrock", s.getHealthBedrock)

	return app
}

// requestLogger adapts fiber's request logger middleware to write through
// the same zap sink as everything else, instead of the default stdout
// writer, matching the teacher's single-sink logging convention.
func requestLogger(l *zap.Logger) fiber.Handler {
	return logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
		Output: zap.NewStdLog(l).Writer(),
	})
}

