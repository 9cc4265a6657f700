package services

import (
	"regexp"

	"fraudshield-lab/internal/domain/models"
	"fraudshield-lab/pkg/logger"
)

var (
	paymentHandlePattern = regexp.MustCompile(`\b[\w.-]+@upi\b`)
	linkPattern          = regexp.MustCompile(`https?://\S+`)
	phonePattern         = regexp.MustCompile(`\b\d{10}\b`)
	bankTermPattern      = regexp.MustCompile(`(?i)\b(account|kyc|ifsc)\b`)
)

// EntityExtractor pulls attacker-identifying artifacts out of raw
// conversation text: payment handles, links, phone numbers and banking
// vocabulary. Works on raw text, not normalized text, since normalization
// destroys the very tokens being harvested.
type EntityExtractor struct {
	logger *logger.Logger
}

// NewEntityExtractor creates a new entity extractor
func NewEntityExtractor(log *logger.Logger) *EntityExtractor {
	return &EntityExtractor{logger: log.WithComponent("entity-extractor")}
}

// Extract scans text for scam-indicator artifacts. Empty results are
// valid; extraction never fails.
func (e *EntityExtractor) Extract(text string) models.ExtractedEntities {
	return models.ExtractedEntities{
		PaymentHandles: matchAll(paymentHandlePattern, text),
		Links:          matchAll(linkPattern, text),
		PhoneNumbers:   matchAll(phonePattern, text),
		BankMentions:   matchAll(bankTermPattern, text),
	}
}

func matchAll(re *regexp.Regexp, text string) []string {
	m := re.FindAllString(text, -1)
	if m == nil {
		return []string{}
	}
	return m
}
