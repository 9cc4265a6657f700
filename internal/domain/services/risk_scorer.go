package services

import (
	"strings"

	"fraudshield-lab/internal/domain/models"
	"fraudshield-lab/pkg/logger"
)

// RiskScorer maps normalized text to a risk score and the set of matched
// trigger keywords, using the canonical detection taxonomy.
type RiskScorer struct {
	taxonomy []KeywordCategory
	logger   *logger.Logger
}

// NewRiskScorer creates a scorer over the canonical detection taxonomy.
func NewRiskScorer(log *logger.Logger) *RiskScorer {
	return &RiskScorer{
		taxonomy: DetectionTaxonomy(),
		logger:   log.WithComponent("risk-scorer"),
	}
}

// Score checks every trigger substring against the normalized text and
// returns the count of distinct matches plus the matched triggers in
// taxonomy order. Matching is substring-based: a trigger inside a larger
// word still counts. Pure and deterministic.
func (s *RiskScorer) Score(normalized string) models.DetectionResult {
	var detected []string
	seen := make(map[string]bool)

	for _, cat := range s.taxonomy {
		for _, trigger := range cat.Triggers {
			if seen[trigger] {
				continue
			}
			if strings.Contains(normalized, trigger) {
				seen[trigger] = true
				detected = append(detected, trigger)
			}
		}
	}

	return models.DetectionResult{
		Score:    len(detected),
		Detected: detected,
	}
}
