// Package sse streams broker events to browsers as Server-Sent Events.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/logging"
)

// DefaultKeepAlive is the interval between comment heartbeats on idle streams.
const DefaultKeepAlive = 30 * time.Second

// Event is one SSE frame.
type Event struct {
	Event string `json:"event,omitempty"`
	ID    string `json:"id,omitempty"`
	Data  any    `json:"data"`
}

// Broadcaster fans events out to every connected stream.
type Broadcaster struct {
	mu        sync.RWMutex
	clients   map[chan Event]struct{}
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
	keepAlive time.Duration
	logger    *zerolog.Logger
}

// NewBroadcaster creates a broadcaster. Streams opened before Run starts
// receive events once it does.
func NewBroadcaster(logger *zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		clients:   make(map[chan Event]struct{}),
		events:    make(chan Event, constants.ChannelBufferSize),
		done:      make(chan struct{}),
		keepAlive: DefaultKeepAlive,
		logger:    logging.OrNop(logger),
	}
}

// Run distributes broadcast events until ctx is cancelled. Open streams end
// when Run returns.
func (b *Broadcaster) Run(ctx context.Context) {
	defer b.closeOnce.Do(func() { close(b.done) })
	for {
		select {
		case <-ctx.Done():
			b.logger.Debug().Int("clients", b.ClientCount()).Msg("SSE broadcaster shut down")
			return
		case event := <-b.events:
			b.mu.RLock()
			for client := range b.clients {
				select {
				case client <- event:
				default:
					b.logger.Warn().Str("event", event.Event).Msg("SSE client buffer full, event skipped")
				}
			}
			b.mu.RUnlock()
		}
	}
}

// Broadcast queues event for every stream. It never blocks.
func (b *Broadcaster) Broadcast(event Event) {
	select {
	case b.events <- event:
	default:
		b.logger.Warn().Str("event", event.Event).Msg("SSE broadcast channel full, event dropped")
	}
}

// ClientCount returns the number of open streams.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *Broadcaster) add() chan Event {
	client := make(chan Event, constants.ChannelBufferSize)
	b.mu.Lock()
	b.clients[client] = struct{}{}
	n := len(b.clients)
	b.mu.Unlock()
	b.logger.Debug().Int("total_clients", n).Msg("SSE client connected")
	return client
}

func (b *Broadcaster) remove(client chan Event) {
	b.mu.Lock()
	delete(b.clients, client)
	n := len(b.clients)
	b.mu.Unlock()
	b.logger.Debug().Int("total_clients", n).Msg("SSE client disconnected")
}

// ServeHTTP holds the connection open and writes each event as it arrives.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	client := b.add()
	defer b.remove(client)

	b.writeEvent(w, flusher, Event{
		Event: "connected",
		Data: map[string]any{
			"message":   "Connected to carmap updates stream",
			"timestamp": time.Now().UTC(),
		},
	})

	ticker := time.NewTicker(b.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case event := <-client:
			b.writeEvent(w, flusher, event)
		case <-ticker.C:
			_, _ = fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case <-r.Context().Done():
			return
		case <-b.done:
			return
		}
	}
}

func (b *Broadcaster) writeEvent(w http.ResponseWriter, flusher http.Flusher, event Event) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		b.logger.Error().Err(err).Str("event", event.Event).Msg("Failed to marshal SSE event data")
		return
	}
	if event.Event != "" {
		_, _ = fmt.Fprintf(w, "event: %s\n", event.Event)
	}
	if event.ID != "" {
		_, _ = fmt.Fprintf(w, "id: %s\n", event.ID)
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
