package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"fraudshield-lab/internal/streaming"
	"fraudshield-lab/pkg/logger"
)

// StreamingHandler exposes the real-time interaction feed
type StreamingHandler struct {
	hub    *streaming.WebSocketHub
	events *streaming.EventBus
	logger *logger.Logger
}

// NewStreamingHandler creates a new streaming handler
func NewStreamingHandler(hub *streaming.WebSocketHub, events *streaming.EventBus, log *logger.Logger) *StreamingHandler {
	return &StreamingHandler{
		hub:    hub,
		events: events,
		logger: log.WithComponent("streaming-handler"),
	}
}

// HandleWebSocket handles GET /api/v1/honeypot/stream - upgrades to a
// WebSocket that receives interaction events. Clients may send a
// subscription JSON to filter the feed.
func (h *StreamingHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		http.Error(w, "Streaming not enabled", http.StatusServiceUnavailable)
		return
	}
	h.hub.ServeWebSocket(w, r)
}

// HandleSSE handles GET /api/v1/honeypot/events - a Server-Sent Events
// feed of interaction events. ?session_id= and ?min_confidence= filter
// the stream; the subscription stays open until the client disconnects.
func (h *StreamingHandler) HandleSSE(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		http.Error(w, "Streaming not enabled", http.StatusServiceUnavailable)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	sub := &streaming.Subscription{}
	if v := r.URL.Query().Get("session_id"); v != "" {
		sub.SessionIDs = []string{v}
	}
	if v := r.URL.Query().Get("min_confidence"); v != "" {
		mc, err := strconv.Atoi(v)
		if err != nil || mc < 0 {
			http.Error(w, "Invalid min_confidence", http.StatusBadRequest)
			return
		}
		sub.MinConfidence = mc
	}

	ch, unsubscribe := h.events.Subscribe(r.Context(), sub)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.logger.Debug().Msg("sse client connected")

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if !sub.Matches(event) {
				continue
			}
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Warn().Err(err).Msg("failed to encode event")
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// GetStats handles GET /api/v1/streaming/stats
func (h *StreamingHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	clients := 0
	if h.hub != nil {
		clients = h.hub.ClientCount()
	}

	subscribers := 0
	if h.events != nil {
		subscribers = h.events.SubscriberCount()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"connected_clients":     clients,
		"event_bus_subscribers": subscribers,
	})
}
