package streaming

import (
	"context"
	"strconv"
	"sync"

	"fraudshield-lab/internal/domain/models"
	"fraudshield-lab/pkg/logger"
)

// EventBus fans interaction events out to the websocket hub, local
// subscribers and, when connected, NATS. It is the SessionManager's
// event publisher; publishing is best-effort and never blocks a turn.
type EventBus struct {
	nats   *NATSPublisher
	hub    *WebSocketHub
	logger *logger.Logger

	mu          sync.RWMutex
	subscribers map[string]chan *InteractionEvent
	nextID      int
}

// NewEventBus creates a new event bus. nats and hub may be nil.
func NewEventBus(nats *NATSPublisher, hub *WebSocketHub, log *logger.Logger) *EventBus {
	return &EventBus{
		nats:        nats,
		hub:         hub,
		logger:      log.WithComponent("event-bus"),
		subscribers: make(map[string]chan *InteractionEvent),
	}
}

// PublishInteraction builds an event from the record and distributes it.
func (eb *EventBus) PublishInteraction(ctx context.Context, record models.InteractionRecord, step int) {
	event := NewInteractionEvent(record, step)

	if eb.nats != nil && eb.nats.IsConnected() {
		if err := eb.nats.PublishInteractionEvent(ctx, event); err != nil {
			eb.logger.Warn().Err(err).Msg("failed to publish to NATS, using local broadcast only")
		}
	}

	if eb.hub != nil {
		eb.hub.BroadcastEvent(event)
	}

	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for id, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			eb.logger.Debug().Str("subscriber", id).Msg("subscriber channel full, dropping event")
		}
	}
}

// Subscribe creates a new subscription and returns a channel for events
func (eb *EventBus) Subscribe(ctx context.Context, sub *Subscription) (<-chan *InteractionEvent, func()) {
	eb.mu.Lock()
	eb.nextID++
	id := strconv.Itoa(eb.nextID)
	ch := make(chan *InteractionEvent, 100)
	eb.subscribers[id] = ch
	eb.mu.Unlock()

	eb.logger.Debug().Str("subscriber_id", id).Msg("new subscriber")

	unsubscribe := func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()
		if _, ok := eb.subscribers[id]; ok {
			close(ch)
			delete(eb.subscribers, id)
			eb.logger.Debug().Str("subscriber_id", id).Msg("subscriber removed")
		}
	}

	// When NATS is up, forward distributed events too
	if eb.nats != nil && eb.nats.IsConnected() {
		natsCh, err := eb.nats.Subscribe(ctx, sub)
		if err == nil {
			go func() {
				for event := range natsCh {
					select {
					case ch <- event:
					case <-ctx.Done():
						return
					}
				}
			}()
		}
	}

	return ch, unsubscribe
}

// SubscriberCount returns the number of active subscribers
func (eb *EventBus) SubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// Close closes the event bus
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for id, ch := range eb.subscribers {
		close(ch)
		delete(eb.subscribers, id)
	}

	if eb.nats != nil {
		eb.nats.Close()
	}
}
