package streaming

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fraudshield-lab/internal/domain/models"
	"fraudshield-lab/pkg/logger"
)

func record(sessionID string, confidence int, keywords ...string) models.InteractionRecord {
	return models.InteractionRecord{
		Timestamp:        time.Now(),
		SessionID:        sessionID,
		ScammerMessage:   "pay the kyc fee immediately",
		VictimReply:      "how much is the fee?",
		DetectedKeywords: keywords,
		ConfidenceLevel:  confidence,
	}
}

func TestEventBus_PublishReachesSubscribers(t *testing.T) {
	eb := NewEventBus(nil, nil, logger.NewDevelopment())

	ch, unsubscribe := eb.Subscribe(context.Background(), &Subscription{})
	defer unsubscribe()

	assert.Equal(t, 1, eb.SubscriberCount())

	eb.PublishInteraction(context.Background(), record("s1", 35, "kyc", "immediately"), 2)

	select {
	case event := <-ch:
		assert.Equal(t, EventTypeInteraction, event.Type)
		assert.Equal(t, "s1", event.SessionID)
		assert.Equal(t, []string{"kyc", "immediately"}, event.DetectedKeywords)
		assert.Equal(t, 35, event.ConfidenceLevel)
		assert.Equal(t, 2, event.Step)
		assert.NotEmpty(t, event.ID)
	case <-time.After(time.Second):
		t.Fatal("event never delivered")
	}
}

func TestEventBus_UnsubscribeClosesChannel(t *testing.T) {
	eb := NewEventBus(nil, nil, logger.NewDevelopment())

	ch, unsubscribe := eb.Subscribe(context.Background(), &Subscription{})
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, eb.SubscriberCount())

	// A second call is a no-op, not a double close
	unsubscribe()
}

func TestEventBus_PublishWithNoSubscribers(t *testing.T) {
	eb := NewEventBus(nil, nil, logger.NewDevelopment())

	// Must not block or panic without NATS, hub or subscribers
	eb.PublishInteraction(context.Background(), record("s1", 20, "otp"), 1)

	assert.Equal(t, 0, eb.SubscriberCount())
}

func TestEventBus_CloseClosesSubscribers(t *testing.T) {
	eb := NewEventBus(nil, nil, logger.NewDevelopment())

	first, _ := eb.Subscribe(context.Background(), &Subscription{})
	second, _ := eb.Subscribe(context.Background(), &Subscription{})
	assert.Equal(t, 2, eb.SubscriberCount())

	eb.Close()

	_, open := <-first
	assert.False(t, open)
	_, open = <-second
	assert.False(t, open)
	assert.Equal(t, 0, eb.SubscriberCount())
}

func TestSubscription_Matches(t *testing.T) {
	event := NewInteractionEvent(record("s1", 50, "otp", "account"), 3)

	tests := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{name: "empty subscription matches all", sub: Subscription{}, want: true},
		{name: "confidence at threshold", sub: Subscription{MinConfidence: 50}, want: true},
		{name: "confidence below threshold", sub: Subscription{MinConfidence: 51}, want: false},
		{name: "session id match", sub: Subscription{SessionIDs: []string{"s0", "s1"}}, want: true},
		{name: "session id mismatch", sub: Subscription{SessionIDs: []string{"s2"}}, want: false},
		{name: "keyword match", sub: Subscription{Keywords: []string{"account"}}, want: true},
		{name: "keyword mismatch", sub: Subscription{Keywords: []string{"lottery"}}, want: false},
		{name: "all filters match", sub: Subscription{
			MinConfidence: 40,
			SessionIDs:    []string{"s1"},
			Keywords:      []string{"otp"},
		}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.Matches(event))
		})
	}
}
