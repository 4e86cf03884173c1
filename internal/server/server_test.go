package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/carmap"
	"github.com/agentstation/carmap/cmd/application"
	"github.com/agentstation/carmap/pkg/filter"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T, load bool, opts ...carmap.Option) (*Server, carmap.Client) {
	t.Helper()
	client, err := carmap.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	app := &application.Mock{
		ClientFunc:   func() (carmap.Client, error) { return client, nil },
		LoggerFunc:   func() *zerolog.Logger { l := zerolog.Nop(); return &l },
		VersionValue: "test",
	}

	cfg := DefaultConfig()
	cfg.RateLimit = 0
	srv, err := New(app, cfg)
	require.NoError(t, err)
	srv.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		assert.NoError(t, srv.Shutdown(ctx))
	})

	if load {
		_ = client.Load(context.Background())
	}
	return srv, client
}

func do(t *testing.T, h http.Handler, method, target string) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestNew_ClientError(t *testing.T) {
	_, err := New(&application.Mock{}, DefaultConfig())
	assert.Error(t, err)
}

func TestShutdownWithoutStart(t *testing.T) {
	client, err := carmap.New()
	require.NoError(t, err)
	srv, err := New(&application.Mock{ClientFunc: func() (carmap.Client, error) { return client, nil }}, Config{})
	require.NoError(t, err)
	assert.NoError(t, srv.Shutdown(context.Background()))
	assert.Equal(t, "/api/v1", srv.config.PathPrefix)
}

func TestRoutes(t *testing.T) {
	srv, _ := newTestServer(t, true)
	h := srv.Handler()

	tests := []struct {
		name   string
		method string
		target string
		status int
		check  func(t *testing.T, data json.RawMessage)
	}{
		{
			name: "health", method: http.MethodGet, target: "/health", status: http.StatusOK,
			check: func(t *testing.T, data json.RawMessage) {
				assert.JSONEq(t, `{"status":"healthy","service":"carmap-api","version":"test"}`, string(data))
			},
		},
		{
			name: "ready", method: http.MethodGet, target: "/api/v1/ready", status: http.StatusOK,
			check: func(t *testing.T, data json.RawMessage) {
				var ready struct {
					Status   string `json:"status"`
					Vehicles int    `json:"vehicles"`
				}
				require.NoError(t, json.Unmarshal(data, &ready))
				assert.Equal(t, "ready", ready.Status)
				assert.Equal(t, 12, ready.Vehicles)
			},
		},
		{
			name: "all vehicles", method: http.MethodGet, target: "/api/v1/vehicles", status: http.StatusOK,
			check: func(t *testing.T, data json.RawMessage) {
				var res carmap.Results
				require.NoError(t, json.Unmarshal(data, &res))
				assert.Equal(t, 12, res.Count)
				assert.Equal(t, "1", res.Vehicles[0].ID.String())
			},
		},
		{
			name: "filtered and sorted", method: http.MethodGet, target: "/api/v1/vehicles?make=Ford&sort=price-desc", status: http.StatusOK,
			check: func(t *testing.T, data json.RawMessage) {
				var res carmap.Results
				require.NoError(t, json.Unmarshal(data, &res))
				require.Equal(t, 2, res.Count)
				assert.GreaterOrEqual(t, res.Vehicles[0].PriceValue, res.Vehicles[1].PriceValue)
			},
		},
		{
			name: "malformed bound is unbounded", method: http.MethodGet, target: "/api/v1/vehicles?year_min=abc", status: http.StatusOK,
			check: func(t *testing.T, data json.RawMessage) {
				var res carmap.Results
				require.NoError(t, json.Unmarshal(data, &res))
				assert.Equal(t, 12, res.Count)
			},
		},
		{
			name: "detail", method: http.MethodGet, target: "/api/v1/vehicles/1", status: http.StatusOK,
			check: func(t *testing.T, data json.RawMessage) {
				var d map[string]any
				require.NoError(t, json.Unmarshal(data, &d))
				assert.Equal(t, "2020 Honda Civic", d["title"])
				assert.Equal(t, "Honda", d["make"])
			},
		},
		{name: "unknown vehicle", method: http.MethodGet, target: "/api/v1/vehicles/999", status: http.StatusNotFound},
		{name: "nested vehicle path", method: http.MethodGet, target: "/api/v1/vehicles/1/extra", status: http.StatusNotFound},
		{
			name: "makes", method: http.MethodGet, target: "/api/v1/makes", status: http.StatusOK,
			check: func(t *testing.T, data json.RawMessage) {
				var list struct{ Count int }
				require.NoError(t, json.Unmarshal(data, &list))
				assert.Equal(t, 9, list.Count)
			},
		},
		{
			name: "types", method: http.MethodGet, target: "/api/v1/types", status: http.StatusOK,
			check: func(t *testing.T, data json.RawMessage) {
				var list struct{ Count int }
				require.NoError(t, json.Unmarshal(data, &list))
				assert.Equal(t, 6, list.Count)
			},
		},
		{name: "sort modes", method: http.MethodGet, target: "/api/v1/sort-modes", status: http.StatusOK},
		{
			name: "favorites empty", method: http.MethodGet, target: "/api/v1/favorites", status: http.StatusOK,
			check: func(t *testing.T, data json.RawMessage) {
				assert.JSONEq(t, `{"ids":[],"count":0}`, string(data))
			},
		},
		{name: "toggle requires POST", method: http.MethodGet, target: "/api/v1/favorites/1/toggle", status: http.StatusMethodNotAllowed},
		{name: "list rejects POST", method: http.MethodPost, target: "/api/v1/vehicles", status: http.StatusMethodNotAllowed},
		{name: "toggle unknown", method: http.MethodPost, target: "/api/v1/favorites/999/toggle", status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, h, tt.method, tt.target)
			assert.Equal(t, tt.status, status)
			if tt.check != nil {
				require.Nil(t, env.Error)
				tt.check(t, env.Data)
			}
		})
	}
}

func TestToggleInvalidatesCache(t *testing.T) {
	srv, client := newTestServer(t, true)
	h := srv.Handler()

	status, env := do(t, h, http.MethodGet, "/api/v1/vehicles?favorites=true")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"count":0`)
	require.Positive(t, srv.Cache().ItemCount())

	status, env = do(t, h, http.MethodPost, "/api/v1/favorites/3/toggle")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":"3","favorite":true,"count":1}`, string(env.Data))
	assert.True(t, client.IsFavorite("3"))
	assert.Zero(t, srv.Cache().ItemCount())

	status, env = do(t, h, http.MethodGet, "/api/v1/vehicles?favorites=true")
	require.Equal(t, http.StatusOK, status)
	var res carmap.Results
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Equal(t, 1, res.Count)
	assert.True(t, res.Vehicles[0].Favorite)
	assert.Equal(t, "★ Favorited", res.Vehicles[0].FavoriteLabel)

	status, env = do(t, h, http.MethodPost, "/api/v1/favorites/3/toggle")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":"3","favorite":false,"count":0}`, string(env.Data))
}

// toggleAfterBrowse toggles a favorite once, after Browse has computed its
// result and before the handler caches it.
type toggleAfterBrowse struct {
	carmap.Client
	once sync.Once
}

func (c *toggleAfterBrowse) Browse(criteria filter.Criteria) (carmap.Results, error) {
	res, err := c.Client.Browse(criteria)
	c.once.Do(func() { _, _ = c.Client.ToggleFavorite("1") })
	return res, err
}

func TestToggleDuringBrowseNotCached(t *testing.T) {
	base, err := carmap.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = base.Close() })
	require.NoError(t, base.Load(context.Background()))
	client := &toggleAfterBrowse{Client: base}

	cfg := DefaultConfig()
	cfg.RateLimit = 0
	srv, err := New(&application.Mock{
		ClientFunc:   func() (carmap.Client, error) { return client, nil },
		VersionValue: "test",
	}, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	h := srv.Handler()

	status, _ := do(t, h, http.MethodGet, "/api/v1/vehicles?favorites=true")
	require.Equal(t, http.StatusOK, status)
	require.True(t, client.IsFavorite("1"))

	status, env := do(t, h, http.MethodGet, "/api/v1/vehicles?favorites=true")
	require.Equal(t, http.StatusOK, status)
	var res carmap.Results
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 1, res.FavoritesCount)
}

func TestCatalogFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer upstream.Close()

	srv, client := newTestServer(t, true, carmap.WithSourceRef(upstream.URL))
	require.Equal(t, carmap.StatusFailed, client.Status())
	h := srv.Handler()

	status, _ := do(t, h, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, status)

	for _, target := range []string{"/api/v1/vehicles", "/api/v1/vehicles/1", "/api/v1/makes", "/api/v1/ready"} {
		t.Run(target, func(t *testing.T) {
			status, env := do(t, h, http.MethodGet, target)
			assert.Equal(t, http.StatusServiceUnavailable, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, "SERVICE_UNAVAILABLE", env.Error.Code)
			assert.Equal(t, "Failed to load data.", env.Error.Message)
		})
	}
}

func TestNotLoaded(t *testing.T) {
	srv, _ := newTestServer(t, false)
	status, env := do(t, srv.Handler(), http.MethodGet, "/api/v1/ready")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Catalog loading", env.Error.Message)
}

func TestMetrics(t *testing.T) {
	srv, _ := newTestServer(t, true)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "carmap_vehicles 12\n")
	assert.Contains(t, string(body), `carmap_api_info{version="test",status="ready"} 1`)
}

func TestFavoriteEventOverWebSocket(t *testing.T) {
	srv, _ := newTestServer(t, true)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/v1/updates/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	var msg struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "connected", msg.Type)
	require.Eventually(t, func() bool { return srv.WSHub().ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	resp, err := ts.Client().Post(ts.URL+"/api/v1/favorites/2/toggle", "application/json", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "favorite.toggled", msg.Type)
	assert.Equal(t, "2", msg.Data["id"])
	assert.Equal(t, true, msg.Data["favorite"])
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"3", "toggle"}, splitPath("3/toggle/"))
	assert.Equal(t, []string{}, splitPath(""))
}

func TestConfigAddr(t *testing.T) {
	assert.Equal(t, "localhost:8080", DefaultConfig().Addr())
}
