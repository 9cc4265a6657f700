package honeypot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fraudshield-lab/internal/domain/models"
	"fraudshield-lab/pkg/logger"
)

func TestRuleBased_ReplyComesFromStepPool(t *testing.T) {
	p := NewRuleBased(logger.NewDevelopment())

	for step := 0; step <= models.MaxStep; step++ {
		reply, err := p.Reply(context.Background(), "give me your otp", nil, step)
		assert.NoError(t, err)
		assert.Contains(t, responsePools[step], reply)
	}
}

func TestRuleBased_ClampsStep(t *testing.T) {
	p := NewRuleBased(logger.NewDevelopment())

	reply, err := p.Reply(context.Background(), "", nil, 99)
	assert.NoError(t, err)
	assert.Contains(t, responsePools[models.MaxStep], reply)

	reply, err = p.Reply(context.Background(), "", nil, -7)
	assert.NoError(t, err)
	assert.Contains(t, responsePools[0], reply)
}

func TestRuleBased_SeededDeterminism(t *testing.T) {
	a := NewRuleBased(logger.NewDevelopment(), WithSeed(42))
	b := NewRuleBased(logger.NewDevelopment(), WithSeed(42))

	for i := 0; i < 20; i++ {
		step := i % (models.MaxStep + 1)
		ra, _ := a.Reply(context.Background(), "msg", nil, step)
		rb, _ := b.Reply(context.Background(), "msg", nil, step)
		assert.Equal(t, ra, rb)
	}
}

func TestRuleBased_TypingDelayIsCapped(t *testing.T) {
	p := NewRuleBased(logger.NewDevelopment(), WithTypingDelay(100*time.Millisecond))

	var slept time.Duration
	p.sleep = func(d time.Duration) { slept = d }

	_, err := p.Reply(context.Background(), "", nil, 0)
	assert.NoError(t, err)
	assert.Greater(t, slept, time.Duration(0))
	assert.LessOrEqual(t, slept, 100*time.Millisecond)
}

func TestRuleBased_NoDelayByDefault(t *testing.T) {
	p := NewRuleBased(logger.NewDevelopment())
	assert.Nil(t, p.sleep)
}
