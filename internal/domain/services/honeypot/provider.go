package honeypot

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"fraudshield-lab/internal/domain/models"
	"fraudshield-lab/pkg/logger"
)

// ReplyProvider produces the decoy's next utterance for a scammer turn.
// Implementations: RuleBased (canned pools) and Generative (LLM-backed).
type ReplyProvider interface {
	Reply(ctx context.Context, message string, detectedKeywords []string, step int) (string, error)
}

// responsePools holds five pools of canned replies, one per escalation
// step. The affect escalates: curious, confused, skeptical, defensive,
// rejecting.
var responsePools = [models.MaxStep + 1][]string{
	{
		"Hello, I just saw your message. What is this about?",
		"Hi, can you explain this to me?",
		"Sorry, I don't really understand what you mean.",
		"I'm not sure why I received this message.",
		"Can you tell me more about this?",
	},
	{
		"I'm not very good with phones. What should I do?",
		"I'm a bit confused. Can you explain slowly?",
		"Why do I need to do this?",
		"I don't usually get messages like this.",
		"Can you explain step by step?",
	},
	{
		"Is this really safe?",
		"Why is this so urgent?",
		"Are you sure this is official?",
		"This sounds a little strange to me.",
		"How do I know this is not a scam?",
	},
	{
		"I don't feel comfortable sharing details.",
		"I think I should ask someone first.",
		"I'm worried about giving information.",
		"Can I do this later?",
		"I'm not convinced this is real.",
	},
	{
		"I don't trust this.",
		"I'm not going to continue this conversation.",
		"I will visit the bank instead.",
		"Please stop messaging me.",
		"I think this is a scam.",
	},
}

// typingRate is the simulated per-character typing time; delay is capped
// at maxDelay.
const typingRate = 30 * time.Millisecond

// RuleBased picks a reply uniformly at random from the pool indexed by
// the current step. The randomness source is injectable so tests can
// assert exact output.
type RuleBased struct {
	mu       sync.Mutex
	rng      *rand.Rand
	sleep    func(time.Duration)
	maxDelay time.Duration
	logger   *logger.Logger
}

// RuleBasedOption customizes a RuleBased provider.
type RuleBasedOption func(*RuleBased)

// WithSeed makes reply selection deterministic for a given seed.
func WithSeed(seed int64) RuleBasedOption {
	return func(p *RuleBased) {
		p.rng = rand.New(rand.NewSource(seed))
	}
}

// WithTypingDelay simulates human typing latency proportional to reply
// length, capped at maxDelay. Off by default; a presentation concern
// only.
func WithTypingDelay(maxDelay time.Duration) RuleBasedOption {
	return func(p *RuleBased) {
		p.sleep = time.Sleep
		p.maxDelay = maxDelay
	}
}

// NewRuleBased creates a rule-based reply provider.
func NewRuleBased(log *logger.Logger, opts ...RuleBasedOption) *RuleBased {
	p := &RuleBased{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: log.WithComponent("honeypot-rule-based"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Reply picks a canned utterance from the pool for the given step. Never
// fails.
func (p *RuleBased) Reply(_ context.Context, _ string, _ []string, step int) (string, error) {
	if step < 0 {
		step = 0
	}
	if step > models.MaxStep {
		step = models.MaxStep
	}
	pool := responsePools[step]

	p.mu.Lock()
	reply := pool[p.rng.Intn(len(pool))]
	p.mu.Unlock()

	if p.sleep != nil {
		delay := time.Duration(len(reply)) * typingRate
		if delay > p.maxDelay {
			delay = p.maxDelay
		}
		p.sleep(delay)
	}

	return reply, nil
}
