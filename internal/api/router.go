package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fraudshield-lab/internal/api/handlers"
	apimiddleware "fraudshield-lab/internal/api/middleware"
	"fraudshield-lab/internal/config"
	"fraudshield-lab/internal/infrastructure/cache"
	"fraudshield-lab/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Rate limiting
	if r.config.RateLimit.Enabled && r.cache != nil {
		router.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit))
	}

	// Public routes
	router.Group(func(pub chi.Router) {
		pub.Get("/health", r.handlers.Health.Check)
		pub.Get("/ready", r.handlers.Health.Ready)
	})

	// API v1 routes
	router.Route("/api/v1", func(api chi.Router) {
		if r.config.Auth.Enabled {
			api.Use(apimiddleware.APIKeyAuth(r.config.Auth.APIKey))
		}

		// Honeypot endpoints
		api.Route("/honeypot", func(hp chi.Router) {
			// Analyze a message and engage the decoy on detection
			hp.Post("/analyze", r.handlers.Honeypot.Analyze)

			// Direct session turns and transcripts
			hp.Post("/sessions/{id}/turns", r.handlers.Honeypot.Turn)
			hp.Get("/sessions/{id}/transcript", r.handlers.Honeypot.Transcript)

			// Harvested data
			hp.Get("/records", r.handlers.Records.List)
			hp.Get("/stats", r.handlers.Stats.Get)

			// Real-time interaction feeds
			hp.Get("/stream", r.handlers.Streaming.HandleWebSocket)
			hp.Get("/events", r.handlers.Streaming.HandleSSE)
		})

		api.Get("/streaming/stats", r.handlers.Streaming.GetStats)
	})

	return router
}
