package honeypot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fraudshield-lab/internal/domain/models"
	"fraudshield-lab/pkg/logger"
)

// decoySystemPrompt encodes the decoy persona and the hard safety rules
// the generated reply must obey.
const decoySystemPrompt = `You are playing the role of an innocent, cautious person who received an unsolicited message that may be a scam. Stay in character at all times.

Hard rules, never break them:
- Never reveal one-time codes, PINs, passwords or verification codes.
- Never share UPI IDs, payment handles, bank account or card details.
- Never agree to transfer money or pay any fee.
- Never admit to being automated or part of a detection system.
- Never insult or threaten the other party.

Behave like a real person: a little slow with technology, polite, and increasingly suspicious as the conversation goes on. Reply with a single short message, no preamble.`

// Generative produces decoy replies through a language-model backend. A
// failed completion is recoverable: the call is retried with backoff and,
// if retries are exhausted, the error is surfaced so the caller can fall
// back to the rule-based provider.
type Generative struct {
	completer  TextCompleter
	maxRetries int
	backoff    time.Duration
	logger     *logger.Logger
}

// NewGenerative creates a generative reply provider.
func NewGenerative(completer TextCompleter, maxRetries int, log *logger.Logger) *Generative {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Generative{
		completer:  completer,
		maxRetries: maxRetries,
		backoff:    500 * time.Millisecond,
		logger:     log.WithComponent("honeypot-generative"),
	}
}

// Reply builds the decoy prompt and asks the backend to complete it.
// Returns an error wrapping ErrLLMUnavailable when the backend cannot be
// reached; the session continues either way.
func (g *Generative) Reply(ctx context.Context, message string, detectedKeywords []string, step int) (string, error) {
	prompt := g.buildPrompt(message, detectedKeywords, step)

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrLLMUnavailable, ctx.Err())
			case <-time.After(g.backoff * time.Duration(attempt)):
			}
		}

		reply, err := g.completer.Complete(ctx, decoySystemPrompt, prompt)
		if err == nil {
			return strings.TrimSpace(reply), nil
		}
		lastErr = err
		g.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("completion failed")
	}
	return "", lastErr
}

// buildPrompt encodes the conversation state for the model. The scammer's
// message goes in verbatim; detected keywords and confidence give the
// model a sense of how suspicious the decoy should already be. No secret
// or payment information is ever placed in the prompt.
func (g *Generative) buildPrompt(message string, detectedKeywords []string, step int) string {
	var sb strings.Builder

	confidence := models.Confidence(step, detectedKeywords)

	sb.WriteString(fmt.Sprintf("Scam confidence so far: %d/100.\n", confidence))
	sb.WriteString(fmt.Sprintf("Suspicion stage: %d of 4 (0 = curious, 4 = openly rejecting).\n", step))
	if len(detectedKeywords) > 0 {
		sb.WriteString("Scam indicators noticed so far: ")
		sb.WriteString(strings.Join(detectedKeywords, ", "))
		sb.WriteString(".\n")
	}
	sb.WriteString("\nThe suspected scammer just sent:\n")
	sb.WriteString(message)
	sb.WriteString("\n\nWrite the decoy's next reply.")

	return sb.String()
}
