package handlers

import (
	"net/http"

	"github.com/agentstation/carmap"
	"github.com/agentstation/carmap/internal/server/response"
	"github.com/agentstation/carmap/pkg/constants"
)

// HandleHealth handles GET /health and GET /api/v1/health (liveness).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "carmap-api",
		"version": h.version,
	})
}

// HandleReady handles GET /api/v1/ready. It reports 503 until the catalog
// has loaded, and for good once the load has failed.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	switch h.client.Status() {
	case carmap.StatusFailed:
		response.ServiceUnavailable(w, constants.LoadFailedMessage, "catalog load failed")
		return
	case carmap.StatusLoading:
		response.ServiceUnavailable(w, "Catalog loading", "catalog has not finished loading")
		return
	}

	count := 0
	if records, err := h.client.Vehicles(); err == nil {
		count = len(records)
	}
	response.OK(w, map[string]any{
		"status":            "ready",
		"vehicles":          count,
		"favorites":         h.client.FavoritesCount(),
		"cache":             h.cache.Stats(),
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
	})
}
