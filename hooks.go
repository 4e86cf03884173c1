package carmap

import (
	"sync"

	"github.com/agentstation/carmap/pkg/vehicles"
)

// Hook function types for client events.
type (
	// CatalogLoadedHook is called once the catalog has loaded.
	CatalogLoadedHook func(count int)

	// LoadFailedHook is called when the catalog load fails.
	LoadFailedHook func(err error)

	// FavoriteToggledHook is called after a favorite toggle has been persisted.
	FavoriteToggledHook func(id vehicles.ID, favorite bool, count int)
)

// Hooks registers event callbacks. Callbacks run synchronously on the
// goroutine that caused the event, after the client lock is released.
type Hooks interface {
	OnCatalogLoaded(fn CatalogLoadedHook)
	OnLoadFailed(fn LoadFailedHook)
	OnFavoriteToggled(fn FavoriteToggledHook)
}

type hooks struct {
	mu                sync.RWMutex
	onCatalogLoaded   []CatalogLoadedHook
	onLoadFailed      []LoadFailedHook
	onFavoriteToggled []FavoriteToggledHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnCatalogLoaded registers fn for successful loads.
func (h *hooks) OnCatalogLoaded(fn CatalogLoadedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onCatalogLoaded = append(h.onCatalogLoaded, fn)
}

// OnLoadFailed registers fn for failed loads.
func (h *hooks) OnLoadFailed(fn LoadFailedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onLoadFailed = append(h.onLoadFailed, fn)
}

// OnFavoriteToggled registers fn for favorite changes.
func (h *hooks) OnFavoriteToggled(fn FavoriteToggledHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFavoriteToggled = append(h.onFavoriteToggled, fn)
}

func (h *hooks) catalogLoaded(count int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onCatalogLoaded {
		fn(count)
	}
}

func (h *hooks) loadFailed(err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onLoadFailed {
		fn(err)
	}
}

func (h *hooks) favoriteToggled(id vehicles.ID, favorite bool, count int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onFavoriteToggled {
		fn(id, favorite, count)
	}
}
