package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fraudshield-lab/internal/domain/services"
	"fraudshield-lab/pkg/logger"
)

// HoneypotHandler handles scam analysis and decoy conversation endpoints
type HoneypotHandler struct {
	sessions *services.SessionManager
	logger   *logger.Logger
}

// NewHoneypotHandler creates a new honeypot handler
func NewHoneypotHandler(sessions *services.SessionManager, log *logger.Logger) *HoneypotHandler {
	return &HoneypotHandler{
		sessions: sessions,
		logger:   log.WithComponent("honeypot-handler"),
	}
}

// AnalyzeRequest is the request body for message analysis
type AnalyzeRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// AnalyzeResponse is the analysis result, including the decoy reply when
// the message looks like a scam
type AnalyzeResponse struct {
	ScamDetected     bool     `json:"scam_detected"`
	DetectedKeywords []string `json:"detected_keywords"`
	SessionID        string   `json:"session_id,omitempty"`
	HoneypotReply    string   `json:"honeypot_reply,omitempty"`
	Confidence       int      `json:"confidence,omitempty"`
}

// TurnRequest is the request body for a direct honeypot turn
type TurnRequest struct {
	Message string `json:"message"`
}

// TurnResponse is the outcome of one scammer turn
type TurnResponse struct {
	SessionID        string   `json:"session_id"`
	Reply            string   `json:"reply"`
	Confidence       int      `json:"confidence"`
	DetectedKeywords []string `json:"detected_keywords"`
	Step             int      `json:"step"`
}

// Analyze handles POST /api/v1/honeypot/analyze - scores a message and,
// when it trips the detector, engages the decoy
func (h *HoneypotHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// An empty message is not an error, it just detects nothing
	result := h.sessions.Detect(req.Message)

	resp := AnalyzeResponse{
		ScamDetected:     result.IsScam(),
		DetectedKeywords: result.Detected,
	}

	if result.IsScam() {
		sessionID := req.SessionID
		if sessionID == "" {
			sessionID = uuid.New().String()
		}

		turn, err := h.sessions.OnScammerTurn(r.Context(), sessionID, req.Message)
		if err != nil {
			// No result at all means both reply providers failed
			if turn == nil {
				h.logger.Error().Err(err).Str("session_id", sessionID).Msg("no reply available")
				http.Error(w, "Failed to generate reply", http.StatusBadGateway)
				return
			}
			// The turn still succeeded, only persistence failed
			h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("turn persisted with errors")
		}

		resp.SessionID = sessionID
		resp.HoneypotReply = turn.Reply
		resp.Confidence = turn.Confidence
		resp.DetectedKeywords = turn.Detected
	}

	h.logger.Info().
		Bool("scam_detected", resp.ScamDetected).
		Int("keywords", len(resp.DetectedKeywords)).
		Msg("message analyzed")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Turn handles POST /api/v1/honeypot/sessions/{id}/turns - feeds a
// scammer message into a session unconditionally
func (h *HoneypotHandler) Turn(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		http.Error(w, "Session ID is required", http.StatusBadRequest)
		return
	}

	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Message == "" {
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}

	turn, err := h.sessions.OnScammerTurn(r.Context(), sessionID, req.Message)
	if err != nil {
		if turn == nil {
			h.logger.Error().Err(err).Str("session_id", sessionID).Msg("no reply available")
			http.Error(w, "Failed to generate reply", http.StatusBadGateway)
			return
		}
		h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("turn persisted with errors")
	}

	step, _ := h.sessions.SessionStep(sessionID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TurnResponse{
		SessionID:        sessionID,
		Reply:            turn.Reply,
		Confidence:       turn.Confidence,
		DetectedKeywords: turn.Detected,
		Step:             step,
	})
}

// Transcript handles GET /api/v1/honeypot/sessions/{id}/transcript -
// returns the ordered conversation, as JSON or CSV (?format=csv)
func (h *HoneypotHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	turns, ok := h.sessions.Transcript(sessionID)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="transcript.csv"`)

		cw := csv.NewWriter(w)
		cw.Write([]string{"role", "message"})
		for _, t := range turns {
			cw.Write([]string{string(t.Role), t.Text})
		}
		cw.Flush()
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"session_id": sessionID,
		"transcript": turns,
	})
}
