// Package events fans client hook callbacks out to the real-time transports.
//
// The server registers carmap hooks that publish onto a Broker; SSE and
// WebSocket adapters subscribe to the broker and forward each event to
// their connected clients.
package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType names an event on the wire.
type EventType string

// Event types.
const (
	// Catalog lifecycle.
	CatalogLoaded EventType = "catalog.loaded"
	CatalogFailed EventType = "catalog.failed"

	// Favorites.
	FavoriteToggled EventType = "favorite.toggled"

	// Transport.
	ClientConnected EventType = "client.connected"
)

// Event is one published occurrence.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewEvent stamps data with a fresh id and the current time.
func NewEvent(eventType EventType, data any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// FavoriteToggledData is the payload of FavoriteToggled.
type FavoriteToggledData struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
	Count    int    `json:"count"`
}

// CatalogLoadedData is the payload of CatalogLoaded.
type CatalogLoadedData struct {
	Count int `json:"count"`
}

// CatalogFailedData is the payload of CatalogFailed.
type CatalogFailedData struct {
	Message string `json:"message"`
}
