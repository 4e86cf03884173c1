package events

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/logging"
)

// Broker distributes published events to subscribers in publish order.
type Broker struct {
	mu          sync.RWMutex
	subscribers []Subscriber
	events      chan Event
	logger      *zerolog.Logger
}

// NewBroker creates a broker. Events published before Run starts are
// buffered up to the channel capacity.
func NewBroker(logger *zerolog.Logger) *Broker {
	return &Broker{
		events: make(chan Event, constants.ChannelBufferSize),
		logger: logging.OrNop(logger),
	}
}

// Run delivers events until ctx is cancelled, then closes all subscribers.
func (b *Broker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			subs := b.subscribers
			b.subscribers = nil
			b.mu.Unlock()
			for _, sub := range subs {
				_ = sub.Close()
			}
			b.logger.Debug().Msg("Event broker shut down")
			return

		case event := <-b.events:
			b.deliver(event)
		}
	}
}

func (b *Broker) deliver(event Event) {
	b.mu.RLock()
	subs := slices.Clone(b.subscribers)
	b.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.Send(event); err != nil {
			b.logger.Warn().
				Err(err).
				Str("event_type", string(event.Type)).
				Msg("Failed to send event to subscriber")
		}
	}

	b.logger.Debug().
		Str("event_type", string(event.Type)).
		Int("subscribers", len(subs)).
		Msg("Event broadcasted")
}

// Publish queues an event. When the queue is full the event is dropped.
func (b *Broker) Publish(eventType EventType, data any) {
	event := NewEvent(eventType, data)
	select {
	case b.events <- event:
	default:
		b.logger.Warn().
			Str("event_type", string(eventType)).
			Msg("Event channel full, event dropped")
	}
}

// Subscribe adds sub. It is safe to call before or after Run.
func (b *Broker) Subscribe(sub Subscriber) {
	b.mu.Lock()
	b.subscribers = append(b.subscribers, sub)
	n := len(b.subscribers)
	b.mu.Unlock()
	b.logger.Debug().Int("total_subscribers", n).Msg("Subscriber registered")
}

// Unsubscribe removes and closes sub.
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	idx := slices.Index(b.subscribers, sub)
	if idx >= 0 {
		b.subscribers = slices.Delete(b.subscribers, idx, idx+1)
	}
	b.mu.Unlock()
	if idx >= 0 {
		_ = sub.Close()
	}
}

// SubscriberCount returns the number of subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
