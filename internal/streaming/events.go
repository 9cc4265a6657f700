package streaming

import (
	"time"

	"github.com/google/uuid"

	"fraudshield-lab/internal/domain/models"
)

// EventType represents the type of honeypot event
type EventType string

const (
	EventTypeInteraction    EventType = "interaction"
	EventTypeSessionStarted EventType = "session_started"
)

// InteractionEvent is a real-time view of one scammer/decoy exchange.
type InteractionEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	SessionID        string   `json:"session_id"`
	ScammerMessage   string   `json:"scammer_message"`
	VictimReply      string   `json:"victim_reply"`
	DetectedKeywords []string `json:"detected_keywords"`
	ConfidenceLevel  int      `json:"confidence_level"`
	Step             int      `json:"step"`
}

// NewInteractionEvent creates an event from a persisted record.
func NewInteractionEvent(record models.InteractionRecord, step int) *InteractionEvent {
	return &InteractionEvent{
		ID:               uuid.New().String(),
		Type:             EventTypeInteraction,
		Timestamp:        record.Timestamp,
		SessionID:        record.SessionID,
		ScammerMessage:   record.ScammerMessage,
		VictimReply:      record.VictimReply,
		DetectedKeywords: record.DetectedKeywords,
		ConfidenceLevel:  record.ConfidenceLevel,
		Step:             step,
	}
}

// Subscription represents a client's subscription preferences
type Subscription struct {
	// Filter by session IDs (empty = all)
	SessionIDs []string `json:"session_ids,omitempty"`

	// Drop events below this confidence level
	MinConfidence int `json:"min_confidence,omitempty"`

	// Filter by detected keyword (empty = all)
	Keywords []string `json:"keywords,omitempty"`
}

// Matches checks if an event matches the subscription filters
func (s *Subscription) Matches(event *InteractionEvent) bool {
	if event.ConfidenceLevel < s.MinConfidence {
		return false
	}

	if len(s.SessionIDs) > 0 {
		found := false
		for _, id := range s.SessionIDs {
			if id == event.SessionID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(s.Keywords) > 0 {
		found := false
		for _, k := range s.Keywords {
			for _, ek := range event.DetectedKeywords {
				if k == ek {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}

	return true
}
