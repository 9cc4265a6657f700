package models

import "time"

// Message is a single inbound text message. Immutable once received.
type Message struct {
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"received_at"`
}

// DetectionResult is the outcome of keyword risk scoring for one message.
// It is derived from the message and never persisted on its own.
type DetectionResult struct {
	Score    int      `json:"score"`
	Detected []string `json:"detected_keywords"`
}

// IsScam reports whether any trigger keyword matched.
func (d DetectionResult) IsScam() bool {
	return d.Score > 0
}
