package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"fraudshield-lab/internal/domain/models"
	"fraudshield-lab/internal/domain/services/honeypot"
	"fraudshield-lab/pkg/logger"
)

type memStore struct {
	mu         sync.Mutex
	records    []models.InteractionRecord
	failAppend bool
}

func (s *memStore) Append(_ context.Context, rec models.InteractionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAppend {
		return errors.New("disk full")
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *memStore) LoadAll(_ context.Context) ([]models.InteractionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.InteractionRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

type failingProvider struct{}

func (failingProvider) Reply(context.Context, string, []string, int) (string, error) {
	return "", honeypot.ErrLLMUnavailable
}

func newTestManager(store ConversationStore, provider honeypot.ReplyProvider) *SessionManager {
	log := logger.NewDevelopment()
	fallback := honeypot.NewRuleBased(log, honeypot.WithSeed(1))
	if provider == nil {
		provider = fallback
	}
	return NewSessionManager(
		NewNormalizer(log),
		NewRiskScorer(log),
		NewPressureEscalator(NewNormalizer(log), log),
		NewEntityExtractor(log),
		provider,
		fallback,
		store,
		nil,
		log,
	)
}

func TestSessionManager_OnScammerTurn(t *testing.T) {
	store := &memStore{}
	m := newTestManager(store, nil)

	result, err := m.OnScammerTurn(context.Background(), "s1", "Your KYC is pending! Verify immediately at http://bank-verify.com")

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Reply)
	assert.Equal(t, []string{"kyc", "immediately", "http"}, result.Detected)

	// The message carries pressure keywords, so the first turn escalates
	step, ok := m.SessionStep("s1")
	assert.True(t, ok)
	assert.Equal(t, 1, step)

	assert.Equal(t, models.Confidence(1, result.Detected), result.Confidence)

	// Exactly one record persisted, mirroring the result
	assert.Len(t, store.records, 1)
	rec := store.records[0]
	assert.Equal(t, "s1", rec.SessionID)
	assert.Equal(t, result.Reply, rec.VictimReply)
	assert.Equal(t, result.Detected, rec.DetectedKeywords)
	assert.Equal(t, result.Confidence, rec.ConfidenceLevel)
}

func TestSessionManager_KeywordsAccumulate(t *testing.T) {
	store := &memStore{}
	m := newTestManager(store, nil)
	ctx := context.Background()

	first, err := m.OnScammerTurn(ctx, "s1", "complete your kyc")
	assert.NoError(t, err)
	assert.Equal(t, []string{"kyc"}, first.Detected)

	second, err := m.OnScammerTurn(ctx, "s1", "act now, this is urgent")
	assert.NoError(t, err)

	// Union, first-seen order, no duplicates
	assert.Equal(t, []string{"kyc", "urgent", "act now"}, second.Detected)
	assert.Equal(t, second.Detected, store.records[1].DetectedKeywords)
}

func TestSessionManager_FallbackOnProviderFailure(t *testing.T) {
	store := &memStore{}
	m := newTestManager(store, failingProvider{})

	result, err := m.OnScammerTurn(context.Background(), "s1", "share your otp")

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Reply)
	assert.Len(t, store.records, 1)
}

func TestSessionManager_StoreFailureIsRecoverable(t *testing.T) {
	store := &memStore{failAppend: true}
	m := newTestManager(store, nil)

	result, err := m.OnScammerTurn(context.Background(), "s1", "share your otp")

	// The turn result is still usable, only persistence failed
	assert.Error(t, err)
	assert.NotNil(t, result)
	assert.NotEmpty(t, result.Reply)

	// The session stays alive for the next turn
	_, ok := m.SessionStep("s1")
	assert.True(t, ok)
}

func TestSessionManager_Transcript(t *testing.T) {
	m := newTestManager(&memStore{}, nil)
	ctx := context.Background()

	m.OnScammerTurn(ctx, "s1", "you won a prize")
	m.OnScammerTurn(ctx, "s1", "pay the fee to claim")

	transcript, ok := m.Transcript("s1")
	assert.True(t, ok)
	assert.Len(t, transcript, 4)
	assert.Equal(t, models.RoleScammer, transcript[0].Role)
	assert.Equal(t, models.RoleDecoy, transcript[1].Role)
	assert.Equal(t, "you won a prize", transcript[0].Text)
	assert.Equal(t, "pay the fee to claim", transcript[2].Text)

	_, ok = m.Transcript("unknown")
	assert.False(t, ok)
}

func TestSessionManager_StatsAccumulate(t *testing.T) {
	m := newTestManager(&memStore{}, nil)
	ctx := context.Background()

	m.OnScammerTurn(ctx, "s1", "send money to winner@upi or call 9876543210")
	m.OnScammerTurn(ctx, "s2", "update kyc at http://trap.example/kyc")

	stats := m.Stats()
	assert.Equal(t, int64(1), stats.PaymentHandles)
	assert.Equal(t, int64(1), stats.PhoneNumbers)
	assert.Equal(t, int64(1), stats.Links)
	assert.Equal(t, int64(2), stats.BankMentions)
}

func TestSessionManager_StatsNeverDecrease(t *testing.T) {
	m := newTestManager(&memStore{}, nil)
	ctx := context.Background()

	m.OnScammerTurn(ctx, "s1", "pay winner@upi now")
	after := m.Stats()

	// A turn with no artifacts leaves counters untouched
	m.OnScammerTurn(ctx, "s1", "hello again")
	assert.Equal(t, after, m.Stats())
}

func TestSessionManager_Restore(t *testing.T) {
	store := &memStore{}
	first := newTestManager(store, nil)
	ctx := context.Background()

	first.OnScammerTurn(ctx, "s1", "share the otp for your account")
	first.OnScammerTurn(ctx, "s1", "this is urgent, act now")

	second := newTestManager(store, nil)
	assert.NoError(t, second.Restore(ctx))

	transcript, ok := second.Transcript("s1")
	assert.True(t, ok)
	assert.Len(t, transcript, 4)

	step, _ := second.SessionStep("s1")
	wantStep, _ := first.SessionStep("s1")
	assert.Equal(t, wantStep, step)
}

func TestSessionManager_ConcurrentSessions(t *testing.T) {
	store := &memStore{}
	m := newTestManager(store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			sessionID := string(rune('a' + id))
			for j := 0; j < 5; j++ {
				_, err := m.OnScammerTurn(context.Background(), sessionID, "pay the fee via upi")
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.records, 40)
	for i := 0; i < 8; i++ {
		transcript, ok := m.Transcript(string(rune('a' + i)))
		assert.True(t, ok)
		assert.Len(t, transcript, 10)
	}
}
