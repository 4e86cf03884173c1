package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/carmap"
)

const cars = `- {id: 1, make: Honda, model: Civic, year: 2020, price: 20000, mileage: 30000, type: Sedan}
- {id: 2, make: Toyota, model: RAV4, year: 2022, price: 30000, mileage: 12000, type: SUV}
`

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	isolate(t)
	var out bytes.Buffer
	a, err := New("1.2.3", "abc123", "2026-10-14", "test", WithOutput(&out))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a, &out
}

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cars.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cars), 0o644))
	return path
}

func TestExecuteVersion(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, a.Execute(context.Background(), []string{"version", "-o", "json"}))

	var info VersionInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc123", info.Commit)
	assert.NotEmpty(t, info.GoVersion)
}

func TestExecuteList(t *testing.T) {
	a, out := newTestApp(t)
	err := a.Execute(context.Background(), []string{
		"list", "--catalog", writeCatalog(t), "--favorites-backend", "memory",
		"--type", "SUV", "-o", "json",
	})
	require.NoError(t, err)

	var results carmap.Results
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results.Vehicles, 1)
	assert.Equal(t, "2022 Toyota RAV4", results.Vehicles[0].Title)
}

func TestExecuteFavoritesPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.db")
	catalog := writeCatalog(t)
	args := func(rest ...string) []string {
		return append([]string{"--catalog", catalog, "--favorites-backend", "bolt", "--favorites-path", path, "-o", "json"}, rest...)
	}

	a, _ := newTestApp(t)
	require.NoError(t, a.Execute(context.Background(), args("favorite", "2")))
	require.NoError(t, a.Shutdown(context.Background()))

	b, out := newTestApp(t)
	require.NoError(t, b.Execute(context.Background(), args("favorites")))
	assert.JSONEq(t, `{"ids":["2"],"count":1}`, out.String())
}

func TestExecuteErrors(t *testing.T) {
	t.Run("bad format", func(t *testing.T) {
		a, _ := newTestApp(t)
		err := a.Execute(context.Background(), []string{"version", "-o", "xml"})
		assert.ErrorContains(t, err, "invalid format")
	})

	t.Run("catalog load failure", func(t *testing.T) {
		a, _ := newTestApp(t)
		err := a.Execute(context.Background(), []string{
			"makes", "--catalog", filepath.Join(t.TempDir(), "missing.json"), "--favorites-backend", "memory",
		})
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "Failed to load data."))
	})

	t.Run("bad backend", func(t *testing.T) {
		a, _ := newTestApp(t)
		err := a.Execute(context.Background(), []string{"types", "--favorites-backend", "redis"})
		assert.ErrorContains(t, err, "favorites_backend")
	})
}

func TestClientIsShared(t *testing.T) {
	a, _ := newTestApp(t)
	a.config.FavoritesBackend = "memory"

	c1, err := a.Client()
	require.NoError(t, err)
	c2, err := a.Client()
	require.NoError(t, err)
	assert.Same(t, c1, c2)

	require.NoError(t, a.Shutdown(context.Background()))
	c3, err := a.Client()
	require.NoError(t, err)
	assert.NotSame(t, c1, c3)
}
