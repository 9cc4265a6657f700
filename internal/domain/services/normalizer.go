package services

import (
	"regexp"
	"strings"

	"fraudshield-lab/pkg/logger"
)

var (
	urlRun      = regexp.MustCompile(`https?\S+`)
	digitRun    = regexp.MustCompile(`\d+`)
	nonWordRun  = regexp.MustCompile(`[^\w\s]`)
	spaceRun    = regexp.MustCompile(`\s+`)
	schemeToken = "http"
)

// Normalizer canonicalizes raw message text before keyword matching.
type Normalizer struct {
	logger *logger.Logger
}

// NewNormalizer creates a new text normalizer
func NewNormalizer(log *logger.Logger) *Normalizer {
	return &Normalizer{logger: log.WithComponent("normalizer")}
}

// Normalize lowercases the text, collapses each URL run down to its scheme
// token so the link signal survives, strips digit runs and punctuation, and
// trims. Idempotent: normalizing already-normalized text is a no-op.
func (n *Normalizer) Normalize(text string) string {
	out := strings.ToLower(text)
	out = urlRun.ReplaceAllString(out, schemeToken)
	out = digitRun.ReplaceAllString(out, "")
	out = nonWordRun.ReplaceAllString(out, "")
	out = spaceRun.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
