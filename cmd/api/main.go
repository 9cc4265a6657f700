package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fraudshield-lab/internal/api"
	"fraudshield-lab/internal/api/handlers"
	"fraudshield-lab/internal/config"
	"fraudshield-lab/internal/domain/services"
	"fraudshield-lab/internal/domain/services/honeypot"
	"fraudshield-lab/internal/infrastructure/cache"
	"fraudshield-lab/internal/infrastructure/database"
	"fraudshield-lab/internal/infrastructure/store"
	"fraudshield-lab/internal/streaming"
	"fraudshield-lab/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting FraudShield Lab")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis is optional; everything caches best-effort without it
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
			redisCache = nil
		}
	}
	defer func() {
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Interaction record store
	var (
		recordStore services.ConversationStore
		db          *database.PostgresDB
		fileStore   *store.FileStore
	)
	switch cfg.Store.Backend {
	case "postgres":
		db, err = database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
		}
		defer db.Close()

		recordStore, err = store.NewPostgresStore(ctx, db, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize postgres store")
		}
	default:
		path := cfg.Store.FilePath
		if path == "" {
			path = "data/interactions.jsonl"
		}
		fileStore, err = store.NewFileStore(path, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open record log")
		}
		defer fileStore.Close()
		recordStore = fileStore
	}

	// Streaming infrastructure
	var natsPublisher *streaming.NATSPublisher
	if cfg.NATS.Enabled {
		natsPublisher, err = streaming.NewNATSPublisher(ctx, cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, continuing without real-time streaming")
		} else {
			log.Info().Str("url", cfg.NATS.URL).Msg("connected to NATS")
		}
	}

	wsHub := streaming.NewWebSocketHub(log)
	go wsHub.Run(ctx)

	eventBus := streaming.NewEventBus(natsPublisher, wsHub, log)
	log.Info().Bool("nats_enabled", natsPublisher != nil).Msg("event bus initialized")

	// Detection pipeline
	normalizer := services.NewNormalizer(log)
	scorer := services.NewRiskScorer(log)
	escalator := services.NewPressureEscalator(normalizer, log)
	extractor := services.NewEntityExtractor(log)

	// Reply providers: the rule-based one doubles as fallback
	ruleBasedOpts := []honeypot.RuleBasedOption{}
	if cfg.Honeypot.SimulateTyping {
		ruleBasedOpts = append(ruleBasedOpts, honeypot.WithTypingDelay(cfg.Honeypot.MaxTypingDelay))
	}
	ruleBased := honeypot.NewRuleBased(log, ruleBasedOpts...)

	var provider honeypot.ReplyProvider = ruleBased
	if cfg.Honeypot.Provider == "generative" {
		llmClient := honeypot.NewLLMClient(cfg.LLM, log)
		provider = honeypot.NewGenerative(llmClient, cfg.LLM.MaxRetries, log)
		log.Info().Str("llm_provider", cfg.LLM.Provider).Msg("generative reply provider enabled")
	}

	var statsCache *cache.RedisCache
	if cfg.Honeypot.StatsCacheEnabled {
		statsCache = redisCache
	}

	sessions := services.NewSessionManager(
		normalizer, scorer, escalator, extractor,
		provider, ruleBased,
		recordStore, statsCache, log,
	)
	sessions.SetEventPublisher(eventBus)

	if err := sessions.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to restore conversation state, starting empty")
	}

	// Initialize handlers
	deps := handlers.Dependencies{
		Sessions:   sessions,
		Store:      recordStore,
		Cache:      redisCache,
		StatsCache: statsCache,
		Hub:        wsHub,
		Events:     eventBus,
		Logger:     log,
	}
	h := handlers.NewHandlers(deps)

	// Create router
	router := api.NewRouter(*cfg, h, redisCache, log)
	httpHandler := router.Setup()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	eventBus.Close()

	log.Info().Msg("shutdown complete")
}
