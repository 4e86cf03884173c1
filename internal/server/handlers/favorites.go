package handlers

import (
	"net/http"

	"github.com/agentstation/carmap/internal/server/response"
	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// FavoritesPayload is the body of GET /api/v1/favorites.
type FavoritesPayload struct {
	IDs   []vehicles.ID `json:"ids"`
	Count int           `json:"count"`
}

// TogglePayload is the body of POST /api/v1/favorites/{id}/toggle.
type TogglePayload struct {
	ID       vehicles.ID `json:"id"`
	Favorite bool        `json:"favorite"`
	Count    int         `json:"count"`
}

// HandleListFavorites handles GET /api/v1/favorites.
func (h *Handlers) HandleListFavorites(w http.ResponseWriter, _ *http.Request) {
	ids := h.client.Favorites()
	if ids == nil {
		ids = []vehicles.ID{}
	}
	response.OK(w, FavoritesPayload{IDs: ids, Count: len(ids)})
}

// HandleToggleFavorite handles POST /api/v1/favorites/{id}/toggle. Cached
// responses are invalidated by the client's toggle hook, not here.
func (h *Handlers) HandleToggleFavorite(w http.ResponseWriter, r *http.Request, id string) {
	logger := logging.FromContext(logging.WithVehicle(r.Context(), id))

	favorite, err := h.client.ToggleFavorite(vehicles.ID(id))
	if err != nil {
		logger.Warn().Err(err).Msg("Favorite toggle failed")
		response.ErrorFromType(w, err)
		return
	}

	logger.Debug().Bool("favorite", favorite).Msg("Favorite toggled")
	response.OK(w, TogglePayload{
		ID:       vehicles.ID(id),
		Favorite: favorite,
		Count:    h.client.FavoritesCount(),
	})
}
