package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/agentstation/carmap/internal/server/handlers"
	"github.com/agentstation/carmap/internal/server/middleware"
	"github.com/agentstation/carmap/internal/server/response"
)

// setupRouter builds the mux and wraps it in the middleware chain.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.client,
		s.cache,
		s.wsHub,
		s.sseBroadcaster,
		&s.upgrader,
		s.logger,
		s.app.Version(),
	)
	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints
	mux.HandleFunc("/health", get(h.HandleHealth))
	mux.HandleFunc(prefix+"/health", get(h.HandleHealth))
	mux.HandleFunc(prefix+"/ready", get(h.HandleReady))

	// Catalog
	mux.HandleFunc(prefix+"/vehicles", get(h.HandleListVehicles))
	mux.HandleFunc(prefix+"/vehicles/", func(w http.ResponseWriter, r *http.Request) {
		parts := splitPath(strings.TrimPrefix(r.URL.Path, prefix+"/vehicles/"))
		if len(parts) != 1 {
			response.NotFound(w, "Not found", r.URL.Path)
			return
		}
		if r.Method != http.MethodGet {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		h.HandleGetVehicle(w, r, parts[0])
	})
	mux.HandleFunc(prefix+"/makes", get(h.HandleListMakes))
	mux.HandleFunc(prefix+"/types", get(h.HandleListTypes))
	mux.HandleFunc(prefix+"/sort-modes", get(h.HandleListSortModes))

	// Favorites
	mux.HandleFunc(prefix+"/favorites", get(h.HandleListFavorites))
	mux.HandleFunc(prefix+"/favorites/", func(w http.ResponseWriter, r *http.Request) {
		parts := splitPath(strings.TrimPrefix(r.URL.Path, prefix+"/favorites/"))
		if len(parts) != 2 || parts[1] != "toggle" {
			response.NotFound(w, "Not found", r.URL.Path)
			return
		}
		if r.Method != http.MethodPost {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		h.HandleToggleFavorite(w, r, parts[0])
	})

	// Real-time
	mux.HandleFunc(prefix+"/updates/ws", get(h.HandleWebSocket))
	mux.HandleFunc(prefix+"/updates/stream", get(h.HandleSSE))

	if s.config.MetricsEnabled {
		mux.HandleFunc("/metrics", s.handleMetrics)
	}
}

// get rejects anything but GET with 405.
func get(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		fn(w, r)
	}
}

// handleMetrics writes plain-text gauges.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	vehicles := 0
	if records, err := s.client.Vehicles(); err == nil {
		vehicles = len(records)
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_, _ = fmt.Fprintf(w, "# TYPE carmap_api_info gauge\n")
	_, _ = fmt.Fprintf(w, "carmap_api_info{version=%q,status=%q} 1\n", s.app.Version(), s.client.Status())
	_, _ = fmt.Fprintf(w, "# TYPE carmap_vehicles gauge\ncarmap_vehicles %d\n", vehicles)
	_, _ = fmt.Fprintf(w, "# TYPE carmap_favorites gauge\ncarmap_favorites %d\n", s.client.FavoritesCount())
	_, _ = fmt.Fprintf(w, "# TYPE carmap_cache_items gauge\ncarmap_cache_items %d\n", s.cache.ItemCount())
	_, _ = fmt.Fprintf(w, "# TYPE carmap_websocket_clients gauge\ncarmap_websocket_clients %d\n", s.wsHub.ClientCount())
	_, _ = fmt.Fprintf(w, "# TYPE carmap_sse_clients gauge\ncarmap_sse_clients %d\n", s.sseBroadcaster.ClientCount())
	_, _ = fmt.Fprintf(w, "# TYPE carmap_uptime_seconds gauge\ncarmap_uptime_seconds %.0f\n", time.Since(s.startTime).Seconds())
}

// applyMiddleware wraps handler with the middleware chain. The first
// middleware listed is outermost.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config
	var chain []func(http.Handler) http.Handler

	chain = append(chain, middleware.Recovery(s.logger), middleware.Logger(s.logger))

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		} else {
			corsConfig.AllowAll = true
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig()
		authConfig.Enabled = true
		if cfg.AuthHeader != "" {
			authConfig.HeaderName = cfg.AuthHeader
		}
		authConfig.PublicPaths = []string{"/health", cfg.PathPrefix + "/health", cfg.PathPrefix + "/ready"}
		chain = append(chain, middleware.Auth(authConfig, s.logger))
	}

	if cfg.RateLimit > 0 {
		chain = append(chain, middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit, s.logger)))
	}

	return middleware.Chain(chain...)(handler)
}

// splitPath splits a URL path into its non-empty segments.
func splitPath(path string) []string {
	parts := []string{}
	for part := range strings.SplitSeq(path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
