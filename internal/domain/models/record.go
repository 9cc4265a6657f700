package models

import (
	"encoding/json"
	"time"
)

// RecordTimeLayout is the timestamp format used in persisted records.
const RecordTimeLayout = "2006-01-02 15:04:05"

// InteractionRecord is one persisted honeypot turn: the scammer message,
// the decoy's reply and the detection state at that moment. Immutable
// once written.
type InteractionRecord struct {
	Timestamp        time.Time
	SessionID        string
	ScammerMessage   string
	VictimReply      string
	DetectedKeywords []string
	ConfidenceLevel  int
}

// recordJSON is the wire shape of an InteractionRecord.
type recordJSON struct {
	Timestamp        string   `json:"timestamp"`
	SessionID        string   `json:"session_id"`
	ScammerMessage   string   `json:"scammer_message"`
	VictimReply      string   `json:"victim_reply"`
	DetectedKeywords []string `json:"detected_keywords"`
	ConfidenceLevel  int      `json:"confidence_level"`
}

// MarshalJSON renders the timestamp in the persisted-record layout.
func (r InteractionRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Timestamp:        r.Timestamp.Format(RecordTimeLayout),
		SessionID:        r.SessionID,
		ScammerMessage:   r.ScammerMessage,
		VictimReply:      r.VictimReply,
		DetectedKeywords: r.DetectedKeywords,
		ConfidenceLevel:  r.ConfidenceLevel,
	})
}

// UnmarshalJSON parses the persisted-record layout.
func (r *InteractionRecord) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ts, err := time.Parse(RecordTimeLayout, raw.Timestamp)
	if err != nil {
		return err
	}
	r.Timestamp = ts
	r.SessionID = raw.SessionID
	r.ScammerMessage = raw.ScammerMessage
	r.VictimReply = raw.VictimReply
	r.DetectedKeywords = raw.DetectedKeywords
	r.ConfidenceLevel = raw.ConfidenceLevel
	return nil
}
