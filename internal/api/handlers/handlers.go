package handlers

import (
	"fraudshield-lab/internal/domain/services"
	"fraudshield-lab/internal/infrastructure/cache"
	"fraudshield-lab/internal/streaming"
	"fraudshield-lab/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health    *HealthHandler
	Honeypot  *HoneypotHandler
	Records   *RecordsHandler
	Stats     *StatsHandler
	Streaming *StreamingHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Sessions *services.SessionManager
	Store    services.ConversationStore
	Cache    *cache.RedisCache
	// StatsCache serves cached stats snapshots; nil when the snapshot
	// is not being written
	StatsCache *cache.RedisCache
	Hub        *streaming.WebSocketHub
	Events     *streaming.EventBus
	Logger     *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	// A typed nil *RedisCache must not become a non-nil StatsReader
	var statsCache StatsReader
	if deps.StatsCache != nil {
		statsCache = deps.StatsCache
	}

	return &Handlers{
		Health:    NewHealthHandler(deps.Cache, deps.Store, deps.Logger),
		Honeypot:  NewHoneypotHandler(deps.Sessions, deps.Logger),
		Records:   NewRecordsHandler(deps.Store, deps.Logger),
		Stats:     NewStatsHandler(deps.Sessions, statsCache, deps.Logger),
		Streaming: NewStreamingHandler(deps.Hub, deps.Events, deps.Logger),
	}
}
