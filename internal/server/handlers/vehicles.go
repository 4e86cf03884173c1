package handlers

import (
	"net/http"

	"github.com/agentstation/carmap/internal/server/cache"
	"github.com/agentstation/carmap/internal/server/response"
	"github.com/agentstation/carmap/pkg/filter"
	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// HandleListVehicles handles GET /api/v1/vehicles.
//
// Query parameters mirror the browse controls: q, make, type, year_min,
// year_max, price_min, price_max, sort and favorites. Malformed numeric
// bounds and unknown sort modes are treated as unset.
func (h *Handlers) HandleListVehicles(w http.ResponseWriter, r *http.Request) {
	criteria := filter.FromValues(r.URL.Query())
	key := cache.Key("vehicles", criteria.Values())

	if cached, ok := h.cache.Get(key); ok {
		response.OK(w, cached)
		return
	}

	gen := h.cache.Generation()
	results, err := h.client.Browse(criteria)
	if err != nil {
		logging.FromContext(r.Context()).Warn().Err(err).Msg("Browse failed")
		response.ErrorFromType(w, err)
		return
	}

	h.cache.SetIfGeneration(key, results, gen)
	response.OK(w, results)
}

// HandleGetVehicle handles GET /api/v1/vehicles/{id}.
func (h *Handlers) HandleGetVehicle(w http.ResponseWriter, r *http.Request, id string) {
	key := "vehicle:" + id
	if cached, ok := h.cache.Get(key); ok {
		response.OK(w, cached)
		return
	}

	gen := h.cache.Generation()
	detail, err := h.client.Detail(vehicles.ID(id))
	if err != nil {
		logging.FromContext(logging.WithVehicle(r.Context(), id)).Debug().Err(err).Msg("Detail failed")
		response.ErrorFromType(w, err)
		return
	}

	h.cache.SetIfGeneration(key, detail, gen)
	response.OK(w, detail)
}

// HandleListMakes handles GET /api/v1/makes.
func (h *Handlers) HandleListMakes(w http.ResponseWriter, _ *http.Request) {
	h.serveList(w, "makes", h.client.Makes)
}

// HandleListTypes handles GET /api/v1/types.
func (h *Handlers) HandleListTypes(w http.ResponseWriter, _ *http.Request) {
	h.serveList(w, "types", h.client.Types)
}

// HandleListSortModes handles GET /api/v1/sort-modes.
func (h *Handlers) HandleListSortModes(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{"items": filter.SortModes(), "default": filter.SortRelevance})
}

func (h *Handlers) serveList(w http.ResponseWriter, key string, list func() ([]string, error)) {
	if cached, ok := h.cache.Get(key); ok {
		response.OK(w, cached)
		return
	}
	gen := h.cache.Generation()
	items, err := list()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	payload := map[string]any{"items": items, "count": len(items)}
	h.cache.SetIfGeneration(key, payload, gen)
	response.OK(w, payload)
}
