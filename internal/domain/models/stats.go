package models

// ExtractedEntities holds attacker-identifying artifacts pulled out of
// conversation text. Empty slices are valid results.
type ExtractedEntities struct {
	PaymentHandles []string `json:"payment_handles"`
	Links          []string `json:"links"`
	PhoneNumbers   []string `json:"phone_numbers"`
	BankMentions   []string `json:"bank_mentions"`
}

// FraudStats are aggregate counters over everything the honeypot has
// harvested. Counters are monotonically non-decreasing and recomputable
// from stored transcripts.
type FraudStats struct {
	PaymentHandles int64 `json:"payment_handles"`
	BankMentions   int64 `json:"bank_mentions"`
	Links          int64 `json:"links"`
	PhoneNumbers   int64 `json:"phone_numbers"`
}

// Add merges another set of counters into this one.
func (s *FraudStats) Add(other FraudStats) {
	s.PaymentHandles += other.PaymentHandles
	s.BankMentions += other.BankMentions
	s.Links += other.Links
	s.PhoneNumbers += other.PhoneNumbers
}

// CountsOf converts an extraction result into counters.
func CountsOf(e ExtractedEntities) FraudStats {
	return FraudStats{
		PaymentHandles: int64(len(e.PaymentHandles)),
		BankMentions:   int64(len(e.BankMentions)),
		Links:          int64(len(e.Links)),
		PhoneNumbers:   int64(len(e.PhoneNumbers)),
	}
}
