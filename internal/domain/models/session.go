package models

import "time"

// MaxStep is the saturating ceiling of the escalation state machine.
const MaxStep = 4

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleScammer Role = "scammer"
	RoleDecoy   Role = "decoy"
)

// Turn is one utterance in a decoy conversation.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"message"`
}

// ConversationSession tracks one decoy conversation with a suspected
// scammer. The escalation step only ever moves forward and never exceeds
// MaxStep. DetectedKeywords accumulates across turns and never shrinks.
type ConversationSession struct {
	ID               string    `json:"id"`
	Step             int       `json:"step"`
	DetectedKeywords []string  `json:"detected_keywords"`
	History          []Turn    `json:"history"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewConversationSession creates a session at step 0 with empty history.
func NewConversationSession(id string) *ConversationSession {
	return &ConversationSession{
		ID:        id,
		CreatedAt: time.Now(),
	}
}

// AddKeywords unions newly detected keywords into the cumulative set,
// preserving first-seen order.
func (s *ConversationSession) AddKeywords(detected []string) {
	seen := make(map[string]bool, len(s.DetectedKeywords))
	for _, k := range s.DetectedKeywords {
		seen[k] = true
	}
	for _, k := range detected {
		if !seen[k] {
			seen[k] = true
			s.DetectedKeywords = append(s.DetectedKeywords, k)
		}
	}
}

// AppendTurn records one utterance at the end of the history.
func (s *ConversationSession) AppendTurn(role Role, text string) {
	s.History = append(s.History, Turn{Role: role, Text: text})
}

// Transcript returns the ordered (role, message) rows of the conversation.
func (s *ConversationSession) Transcript() []Turn {
	out := make([]Turn, len(s.History))
	copy(out, s.History)
	return out
}

// FullText joins every utterance in the conversation, oldest first. Used
// as input for entity extraction over the whole exchange.
func (s *ConversationSession) FullText() string {
	var b []byte
	for i, t := range s.History {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, t.Text...)
	}
	return string(b)
}
