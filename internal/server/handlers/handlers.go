// Package handlers implements the carmap HTTP API endpoints.
package handlers

import (
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/carmap"
	"github.com/agentstation/carmap/internal/server/cache"
	"github.com/agentstation/carmap/internal/server/sse"
	ws "github.com/agentstation/carmap/internal/server/websocket"
	"github.com/agentstation/carmap/pkg/logging"
)

// Handlers holds the dependencies shared by every endpoint.
type Handlers struct {
	client         carmap.Client
	cache          *cache.Cache
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       *websocket.Upgrader
	logger         *zerolog.Logger
	version        string
}

// New creates the handler set.
func New(
	client carmap.Client,
	cache *cache.Cache,
	wsHub *ws.Hub,
	sseBroadcaster *sse.Broadcaster,
	upgrader *websocket.Upgrader,
	logger *zerolog.Logger,
	version string,
) *Handlers {
	return &Handlers{
		client:         client,
		cache:          cache,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader:       upgrader,
		logger:         logging.OrNop(logger),
		version:        version,
	}
}
