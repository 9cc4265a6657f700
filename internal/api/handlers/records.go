package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fraudshield-lab/internal/domain/services"
	"fraudshield-lab/pkg/logger"
)

// RecordsHandler exposes the persisted interaction log
type RecordsHandler struct {
	store  services.ConversationStore
	logger *logger.Logger
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(store services.ConversationStore, log *logger.Logger) *RecordsHandler {
	return &RecordsHandler{
		store:  store,
		logger: log.WithComponent("records-handler"),
	}
}

// List handles GET /api/v1/honeypot/records - returns interaction
// records in append order, newest last. ?limit=N keeps only the last N.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.LoadAll(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load records")
		http.Error(w, "Failed to load records", http.StatusInternalServerError)
		return
	}

	// Total always reflects the full log, not the limited page
	total := len(records)

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		if limit < len(records) {
			records = records[len(records)-limit:]
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"total":   total,
		"records": records,
	})
}
