// Package adapters connects the event broker to the SSE and WebSocket transports.
package adapters

import (
	"github.com/agentstation/carmap/internal/server/events"
	"github.com/agentstation/carmap/internal/server/sse"
	ws "github.com/agentstation/carmap/internal/server/websocket"
)

// SSESubscriber forwards broker events to an SSE broadcaster.
type SSESubscriber struct {
	broadcaster *sse.Broadcaster
}

// NewSSESubscriber wraps broadcaster.
func NewSSESubscriber(broadcaster *sse.Broadcaster) *SSESubscriber {
	return &SSESubscriber{broadcaster: broadcaster}
}

// Send queues event as an SSE frame named after the event type.
func (s *SSESubscriber) Send(event events.Event) error {
	s.broadcaster.Broadcast(sse.Event{
		Event: string(event.Type),
		ID:    event.ID,
		Data:  event.Data,
	})
	return nil
}

// Close is a no-op; the broadcaster stops with its own context.
func (s *SSESubscriber) Close() error { return nil }

// WebSocketSubscriber forwards broker events to a WebSocket hub.
type WebSocketSubscriber struct {
	hub *ws.Hub
}

// NewWebSocketSubscriber wraps hub.
func NewWebSocketSubscriber(hub *ws.Hub) *WebSocketSubscriber {
	return &WebSocketSubscriber{hub: hub}
}

// Send queues event as a JSON message.
func (w *WebSocketSubscriber) Send(event events.Event) error {
	w.hub.Broadcast(ws.Message{
		ID:        event.ID,
		Type:      string(event.Type),
		Timestamp: event.Timestamp,
		Data:      event.Data,
	})
	return nil
}

// Close is a no-op; the hub stops with its own context.
func (w *WebSocketSubscriber) Close() error { return nil }
