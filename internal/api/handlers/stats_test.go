package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"fraudshield-lab/internal/domain/models"
	"fraudshield-lab/internal/domain/services"
	"fraudshield-lab/internal/domain/services/honeypot"
	"fraudshield-lab/pkg/logger"
)

type fakeStatsReader struct {
	stats models.FraudStats
	err   error
	calls int
}

func (f *fakeStatsReader) GetJSON(_ context.Context, _ string, dest any) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	*(dest.(*models.FraudStats)) = f.stats
	return nil
}

func newStatsSessionManager(t *testing.T) *services.SessionManager {
	t.Helper()
	log := logger.NewDevelopment()
	normalizer := services.NewNormalizer(log)
	ruleBased := honeypot.NewRuleBased(log, honeypot.WithSeed(3))
	return services.NewSessionManager(
		normalizer,
		services.NewRiskScorer(log),
		services.NewPressureEscalator(normalizer, log),
		services.NewEntityExtractor(log),
		ruleBased,
		ruleBased,
		&memStore{},
		nil,
		log,
	)
}

func getStats(t *testing.T, h *StatsHandler) (*httptest.ResponseRecorder, models.FraudStats) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/honeypot/stats", nil)
	w := httptest.NewRecorder()
	h.Get(w, req)

	var stats models.FraudStats
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	return w, stats
}

func TestStatsHandler_ServesCachedSnapshot(t *testing.T) {
	log := logger.NewDevelopment()
	sessions := newStatsSessionManager(t)

	cached := &fakeStatsReader{stats: models.FraudStats{
		PaymentHandles: 7,
		BankMentions:   3,
		Links:          2,
		PhoneNumbers:   5,
	}}
	h := NewStatsHandler(sessions, cached, log)

	w, stats := getStats(t, h)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, cached.stats, stats)
	assert.Equal(t, 1, cached.calls)
}

func TestStatsHandler_FallsBackOnCacheMiss(t *testing.T) {
	log := logger.NewDevelopment()
	sessions := newStatsSessionManager(t)

	_, err := sessions.OnScammerTurn(context.Background(), "s1",
		"send the fee to fraud@upi or call 9876543210")
	assert.NoError(t, err)

	missing := &fakeStatsReader{err: errors.New("key not found")}
	h := NewStatsHandler(sessions, missing, log)

	w, stats := getStats(t, h)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, missing.calls)
	assert.Equal(t, int64(1), stats.PaymentHandles)
	assert.Equal(t, int64(1), stats.PhoneNumbers)
}

func TestStatsHandler_NoCacheConfigured(t *testing.T) {
	log := logger.NewDevelopment()
	sessions := newStatsSessionManager(t)

	h := NewStatsHandler(sessions, nil, log)

	w, stats := getStats(t, h)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.FraudStats{}, stats)
}
