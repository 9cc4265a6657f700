package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"fraudshield-lab/internal/domain/models"
	"fraudshield-lab/internal/domain/services"
	"fraudshield-lab/internal/infrastructure/cache"
	"fraudshield-lab/pkg/logger"
)

// StatsReader reads a cached stats snapshot. *cache.RedisCache satisfies it.
type StatsReader interface {
	GetJSON(ctx context.Context, key string, dest any) error
}

// StatsHandler exposes the harvested-artifact counters
type StatsHandler struct {
	sessions *services.SessionManager
	cache    StatsReader
	logger   *logger.Logger
}

// NewStatsHandler creates a new stats handler. statsCache may be nil, in
// which case counters are always served from memory.
func NewStatsHandler(sessions *services.SessionManager, statsCache StatsReader, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		sessions: sessions,
		cache:    statsCache,
		logger:   log.WithComponent("stats-handler"),
	}
}

// Get handles GET /api/v1/honeypot/stats - serves the cached snapshot when
// a cache is configured, falling back to the in-memory counters on a miss.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.cache != nil {
		var cached models.FraudStats
		err := h.cache.GetJSON(r.Context(), cache.KeyFraudStats, &cached)
		if err == nil {
			json.NewEncoder(w).Encode(cached)
			return
		}
		h.logger.Debug().Err(err).Msg("stats cache miss, serving in-memory counters")
	}

	json.NewEncoder(w).Encode(h.sessions.Stats())
}
