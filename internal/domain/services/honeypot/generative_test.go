package honeypot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fraudshield-lab/pkg/logger"
)

type fakeCompleter struct {
	reply    string
	err      error
	failures int // fail this many calls before succeeding
	calls    int
	lastSys  string
	lastUser string
}

func (f *fakeCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	f.calls++
	f.lastSys = system
	f.lastUser = prompt
	if f.err != nil && f.calls <= f.failures {
		return "", f.err
	}
	if f.err != nil && f.failures == 0 {
		return "", f.err
	}
	return f.reply, nil
}

func TestGenerative_Reply(t *testing.T) {
	fc := &fakeCompleter{reply: "  Oh, what is this about?  "}
	g := NewGenerative(fc, 2, logger.NewDevelopment())

	reply, err := g.Reply(context.Background(), "you won a lottery, pay the fee", []string{"lottery", "fee"}, 1)

	assert.NoError(t, err)
	assert.Equal(t, "Oh, what is this about?", reply)
	assert.Equal(t, 1, fc.calls)

	// Prompt carries conversation state, system prompt carries the rules
	assert.Contains(t, fc.lastUser, "lottery, fee")
	assert.Contains(t, fc.lastUser, "you won a lottery, pay the fee")
	assert.Contains(t, fc.lastSys, "Never reveal one-time codes")
}

func TestGenerative_RetriesThenSucceeds(t *testing.T) {
	fc := &fakeCompleter{
		reply:    "who is this?",
		err:      fmt.Errorf("%w: timeout", ErrLLMUnavailable),
		failures: 2,
	}
	g := NewGenerative(fc, 2, logger.NewDevelopment())
	g.backoff = time.Millisecond

	reply, err := g.Reply(context.Background(), "send otp", nil, 0)

	assert.NoError(t, err)
	assert.Equal(t, "who is this?", reply)
	assert.Equal(t, 3, fc.calls)
}

func TestGenerative_ExhaustedRetriesSurfaceError(t *testing.T) {
	fc := &fakeCompleter{err: fmt.Errorf("%w: api error 500", ErrLLMUnavailable)}
	g := NewGenerative(fc, 2, logger.NewDevelopment())
	g.backoff = time.Millisecond

	_, err := g.Reply(context.Background(), "send otp", nil, 0)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrLLMUnavailable))
	assert.Equal(t, 3, fc.calls)
}

func TestGenerative_ContextCancelStopsRetrying(t *testing.T) {
	fc := &fakeCompleter{err: fmt.Errorf("%w: down", ErrLLMUnavailable)}
	g := NewGenerative(fc, 5, logger.NewDevelopment())
	g.backoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Reply(ctx, "send otp", nil, 0)

	assert.True(t, errors.Is(err, ErrLLMUnavailable))
	assert.Equal(t, 1, fc.calls)
}

func TestGenerative_PromptNeverLeaksSecrets(t *testing.T) {
	fc := &fakeCompleter{reply: "ok"}
	g := NewGenerative(fc, 0, logger.NewDevelopment())

	_, err := g.Reply(context.Background(), "what is your otp?", []string{"otp"}, 3)
	assert.NoError(t, err)

	// The decoy prompt must describe suspicion, not supply credentials
	assert.False(t, strings.Contains(strings.ToLower(fc.lastSys), "api key"))
	assert.Contains(t, fc.lastUser, "Suspicion stage: 3 of 4")
}
