package services

import (
	"strings"

	"fraudshield-lab/internal/domain/models"
	"fraudshield-lab/pkg/logger"
)

// PressureEscalator advances a session's escalation step when the scammer
// uses a pressure keyword. Steps are bounded to [0, models.MaxStep]; the
// ceiling saturates rather than terminating the conversation.
type PressureEscalator struct {
	normalizer *Normalizer
	taxonomy   []KeywordCategory
	logger     *logger.Logger
}

// NewPressureEscalator creates an escalator over the pressure taxonomy.
func NewPressureEscalator(normalizer *Normalizer, log *logger.Logger) *PressureEscalator {
	return &PressureEscalator{
		normalizer: normalizer,
		taxonomy:   PressureTaxonomy(),
		logger:     log.WithComponent("escalator"),
	}
}

// Advance returns the next step for a session at the given step after
// receiving message. The step increases by one, up to the ceiling, when
// any pressure trigger is present; otherwise it is unchanged. Never
// decreases.
func (e *PressureEscalator) Advance(step int, message string) int {
	if step < 0 {
		step = 0
	}
	normalized := e.normalizer.Normalize(message)

	for _, cat := range e.taxonomy {
		for _, trigger := range cat.Triggers {
			if strings.Contains(normalized, trigger) {
				if step < models.MaxStep {
					return step + 1
				}
				return models.MaxStep
			}
		}
	}
	return step
}
