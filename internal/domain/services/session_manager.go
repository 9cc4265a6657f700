package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fraudshield-lab/internal/domain/models"
	"fraudshield-lab/internal/domain/services/honeypot"
	"fraudshield-lab/internal/infrastructure/cache"
	"fraudshield-lab/pkg/logger"
)

// ConversationStore is the persistence contract for interaction records:
// append-only, no update or delete. Implementations must tolerate
// concurrent appends from independent sessions without losing records.
type ConversationStore interface {
	Append(ctx context.Context, record models.InteractionRecord) error
	LoadAll(ctx context.Context) ([]models.InteractionRecord, error)
}

// EventPublisher receives each interaction record as it is appended, for
// real-time dashboards. Optional; publishing is best-effort.
type EventPublisher interface {
	PublishInteraction(ctx context.Context, record models.InteractionRecord, step int)
}

// TurnResult is everything produced by a single scammer turn.
type TurnResult struct {
	Reply      string
	Confidence int
	Detected   []string
	Record     models.InteractionRecord
}

// sessionState wraps one session with its own mutex so turns within a
// session are strictly ordered while independent sessions stay
// concurrent. counts remembers the last entity-extraction tally for the
// session so global counters only ever receive positive deltas.
type sessionState struct {
	mu      sync.Mutex
	session *models.ConversationSession
	counts  models.FraudStats
}

// SessionManager owns every decoy conversation. It runs the full turn
// pipeline: escalation, detection union, reply selection, confidence,
// persistence and stats.
type SessionManager struct {
	normalizer *Normalizer
	scorer     *RiskScorer
	escalator  *PressureEscalator
	extractor  *EntityExtractor
	provider   honeypot.ReplyProvider
	fallback   honeypot.ReplyProvider
	store      ConversationStore
	cache      *cache.RedisCache
	publisher  EventPublisher
	logger     *logger.Logger

	mu       sync.Mutex
	sessions map[string]*sessionState

	statsMu sync.Mutex
	stats   models.FraudStats
}

// NewSessionManager wires the turn pipeline together. cache and publisher
// may be nil; fallback is the provider used when the primary one fails
// and may equal the primary.
func NewSessionManager(
	normalizer *Normalizer,
	scorer *RiskScorer,
	escalator *PressureEscalator,
	extractor *EntityExtractor,
	provider honeypot.ReplyProvider,
	fallback honeypot.ReplyProvider,
	store ConversationStore,
	c *cache.RedisCache,
	log *logger.Logger,
) *SessionManager {
	return &SessionManager{
		normalizer: normalizer,
		scorer:     scorer,
		escalator:  escalator,
		extractor:  extractor,
		provider:   provider,
		fallback:   fallback,
		store:      store,
		cache:      c,
		logger:     log.WithComponent("session-manager"),
		sessions:   make(map[string]*sessionState),
	}
}

// SetEventPublisher wires a publisher for real-time interaction events.
func (m *SessionManager) SetEventPublisher(p EventPublisher) {
	m.publisher = p
}

// Detect runs the keyword risk scorer against a raw message. Pure; never
// fails. Empty input scores zero.
func (m *SessionManager) Detect(message string) models.DetectionResult {
	return m.scorer.Score(m.normalizer.Normalize(message))
}

// OnScammerTurn processes one scammer message within a session, creating
// the session on first use. The returned TurnResult is always valid when
// err is nil; a persistence failure is returned alongside a valid result
// so the caller can keep the conversation alive.
func (m *SessionManager) OnScammerTurn(ctx context.Context, sessionID, message string) (*TurnResult, error) {
	state := m.getOrCreate(sessionID)

	state.mu.Lock()
	defer state.mu.Unlock()

	sess := state.session
	sess.AppendTurn(models.RoleScammer, message)

	// Escalate first: the new message's pressure applies to this turn.
	sess.Step = m.escalator.Advance(sess.Step, message)

	det := m.scorer.Score(m.normalizer.Normalize(message))
	sess.AddKeywords(det.Detected)

	reply, err := m.provider.Reply(ctx, message, sess.DetectedKeywords, sess.Step)
	if err != nil {
		m.logger.Warn().Err(err).Str("session_id", sessionID).Msg("reply provider failed, falling back")
		reply, err = m.fallback.Reply(ctx, message, sess.DetectedKeywords, sess.Step)
		if err != nil {
			// Rule-based fallback never fails; guard anyway.
			return nil, fmt.Errorf("no reply available: %w", err)
		}
	}
	sess.AppendTurn(models.RoleDecoy, reply)

	confidence := models.Confidence(sess.Step, sess.DetectedKeywords)

	keywords := make([]string, len(sess.DetectedKeywords))
	copy(keywords, sess.DetectedKeywords)

	record := models.InteractionRecord{
		Timestamp:        time.Now(),
		SessionID:        sessionID,
		ScammerMessage:   message,
		VictimReply:      reply,
		DetectedKeywords: keywords,
		ConfidenceLevel:  confidence,
	}

	result := &TurnResult{
		Reply:      reply,
		Confidence: confidence,
		Detected:   keywords,
		Record:     record,
	}

	var storeErr error
	if err := m.store.Append(ctx, record); err != nil {
		storeErr = fmt.Errorf("failed to persist interaction record: %w", err)
	}

	m.updateStats(ctx, state)

	if m.publisher != nil {
		m.publisher.PublishInteraction(ctx, record, sess.Step)
	}

	return result, storeErr
}

// Transcript returns the ordered (role, message) rows of a session.
func (m *SessionManager) Transcript(sessionID string) ([]models.Turn, bool) {
	m.mu.Lock()
	state, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return nil, false
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	return state.session.Transcript(), true
}

// SessionStep returns the current escalation step of a session.
func (m *SessionManager) SessionStep(sessionID string) (int, bool) {
	m.mu.Lock()
	state, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return 0, false
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	return state.session.Step, true
}

// Stats returns the global harvested-artifact counters.
func (m *SessionManager) Stats() models.FraudStats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

// Restore rebuilds sessions and counters from the persisted record log,
// replaying escalation over the stored scammer messages. Called once at
// startup; a corrupt or empty store restores nothing and is not an error.
func (m *SessionManager) Restore(ctx context.Context) error {
	records, err := m.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load interaction records: %w", err)
	}

	for _, rec := range records {
		state := m.getOrCreate(rec.SessionID)

		state.mu.Lock()
		sess := state.session
		sess.AppendTurn(models.RoleScammer, rec.ScammerMessage)
		sess.AppendTurn(models.RoleDecoy, rec.VictimReply)
		sess.Step = m.escalator.Advance(sess.Step, rec.ScammerMessage)
		sess.AddKeywords(rec.DetectedKeywords)
		state.mu.Unlock()

		m.updateStats(ctx, state)
	}

	m.logger.Info().Int("records", len(records)).Int("sessions", len(m.sessions)).Msg("restored conversation state")
	return nil
}

func (m *SessionManager) getOrCreate(sessionID string) *sessionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok {
		state = &sessionState{session: models.NewConversationSession(sessionID)}
		m.sessions[sessionID] = state
		m.logger.Info().Str("session_id", sessionID).Msg("honeypot session started")
	}
	return state
}

// updateStats re-extracts entities over the full session transcript and
// merges the positive delta into the global counters. Counters never
// decrease: the transcript only grows. Caller must hold state.mu.
func (m *SessionManager) updateStats(ctx context.Context, state *sessionState) {
	entities := m.extractor.Extract(state.session.FullText())
	counts := models.CountsOf(entities)

	delta := models.FraudStats{
		PaymentHandles: counts.PaymentHandles - state.counts.PaymentHandles,
		BankMentions:   counts.BankMentions - state.counts.BankMentions,
		Links:          counts.Links - state.counts.Links,
		PhoneNumbers:   counts.PhoneNumbers - state.counts.PhoneNumbers,
	}
	state.counts = counts

	m.statsMu.Lock()
	m.stats.Add(delta)
	snapshot := m.stats
	m.statsMu.Unlock()

	if m.cache != nil {
		if err := m.cache.SetJSON(ctx, cache.KeyFraudStats, snapshot, 0); err != nil {
			m.logger.Debug().Err(err).Msg("failed to cache fraud stats")
		}
	}
}
