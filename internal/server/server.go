// Package server provides the carmap HTTP API: catalog browsing, favorites,
// and real-time favorite and catalog events over SSE and WebSocket.
package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/agentstation/carmap"
	"github.com/agentstation/carmap/cmd/application"
	"github.com/agentstation/carmap/internal/server/cache"
	"github.com/agentstation/carmap/internal/server/events"
	"github.com/agentstation/carmap/internal/server/events/adapters"
	"github.com/agentstation/carmap/internal/server/sse"
	ws "github.com/agentstation/carmap/internal/server/websocket"
	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app            application.Application
	client         carmap.Client
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	done           chan struct{}
	started        atomic.Bool
	startTime      time.Time
}

// New creates a server for app's client. It does not load the catalog; a
// catalog that later fails to load leaves the server up and answering 503.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := logging.OrNop(app.Logger())

	client, err := app.Client()
	if err != nil {
		return nil, err
	}

	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = constants.CacheTTL
	}
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = DefaultConfig().PathPrefix
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)
	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		app:            app,
		client:         client,
		cache:          cache.New(cfg.CacheTTL, constants.CacheCleanupInterval),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		startTime: time.Now(),
	}

	s.connectHooks()
	logger.Debug().Str("addr", cfg.Addr()).Msg("Server instance created")
	return s, nil
}

// connectHooks publishes client events to the broker and drops cached
// responses whenever their content may have changed.
func (s *Server) connectHooks() {
	s.client.OnCatalogLoaded(func(count int) {
		s.cache.Clear()
		s.broker.Publish(events.CatalogLoaded, events.CatalogLoadedData{Count: count})
	})

	s.client.OnLoadFailed(func(err error) {
		s.cache.Clear()
		s.broker.Publish(events.CatalogFailed, events.CatalogFailedData{Message: constants.LoadFailedMessage})
		s.logger.Debug().Err(err).Msg("Catalog failure event published")
	})

	s.client.OnFavoriteToggled(func(id vehicles.ID, favorite bool, count int) {
		s.cache.Clear()
		s.broker.Publish(events.FavoriteToggled, events.FavoriteToggledData{
			ID:       id.String(),
			Favorite: favorite,
			Count:    count,
		})
		s.logger.Debug().
			Str("vehicle_id", id.String()).
			Bool("favorite", favorite).
			Msg("Favorite toggled event published")
	})
}

// Start runs the broker, WebSocket hub and SSE broadcaster in the background.
func (s *Server) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	tasks := []func(context.Context){s.broker.Run, s.wsHub.Run, s.sseBroadcaster.Run}
	finished := make(chan struct{}, len(tasks))
	for _, run := range tasks {
		go func() {
			run(s.ctx)
			finished <- struct{}{}
		}()
	}
	go func() {
		for range tasks {
			<-finished
		}
		close(s.done)
	}()
	s.logger.Debug().Msg("Background services started")
}

// Handler returns the routed handler with the middleware chain, wrapped in
// OpenTelemetry instrumentation when tracing is enabled.
func (s *Server) Handler() http.Handler {
	handler := s.setupRouter()
	if s.config.TracingEnabled {
		handler = otelhttp.NewHandler(handler, "carmap",
			otelhttp.WithFilter(func(r *http.Request) bool {
				return r.URL.Path != "/health" && r.URL.Path != "/metrics"
			}),
		)
	}
	return handler
}

// HTTPServer returns an http.Server for the configured address.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// Shutdown stops the background services and waits for them, or for ctx.
// It is safe to call without Start.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	if !s.started.Load() {
		return nil
	}
	select {
	case <-s.done:
		s.logger.Debug().Msg("Background services shut down")
		return nil
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	}
}

// Cache returns the response cache.
func (s *Server) Cache() *cache.Cache { return s.cache }

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker { return s.broker }

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *ws.Hub { return s.wsHub }

// SSEBroadcaster returns the SSE broadcaster.
func (s *Server) SSEBroadcaster() *sse.Broadcaster { return s.sseBroadcaster }

// StartTime returns when the server was created.
func (s *Server) StartTime() time.Time { return s.startTime }
