package favorites

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/carmap"
	"github.com/agentstation/carmap/cmd/application"
	pkgerrors "github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/favorites"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// newApp returns an app whose client persists favorites to path. Each call
// opens a fresh client, as separate CLI invocations would.
func newApp(t *testing.T, path, format string) *application.Mock {
	t.Helper()
	client, err := carmap.New(carmap.WithStorageBackend(favorites.BackendFile, path))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return &application.Mock{
		ClientFunc:       func() (carmap.Client, error) { return client, nil },
		OutputFormatFunc: func() string { return format },
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestToggle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")

	t.Run("add", func(t *testing.T) {
		out, err := run(t, NewToggleCommand(newApp(t, path, "json")), "4")
		require.NoError(t, err)
		var got Toggle
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, Toggle{ID: "4", Favorite: true, Count: 1}, got)
	})

	t.Run("persisted across clients", func(t *testing.T) {
		out, err := run(t, NewCommand(newApp(t, path, "json")))
		require.NoError(t, err)
		var got List
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, List{IDs: []vehicles.ID{"4"}, Count: 1}, got)
	})

	t.Run("remove prints message", func(t *testing.T) {
		out, err := run(t, NewToggleCommand(newApp(t, path, "table")), "4")
		require.NoError(t, err)
		assert.Contains(t, out, "removed from favorites (0 total)")
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := run(t, NewToggleCommand(newApp(t, path, "json")), "99")
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")

	t.Run("empty is an empty array", func(t *testing.T) {
		out, err := run(t, NewCommand(newApp(t, path, "json")))
		require.NoError(t, err)
		assert.JSONEq(t, `{"ids":[],"count":0}`, out)
	})

	t.Run("table shows titles", func(t *testing.T) {
		app := newApp(t, path, "table")
		_, err := run(t, NewToggleCommand(app), "1")
		require.NoError(t, err)

		out, err := run(t, NewCommand(app))
		require.NoError(t, err)
		assert.Contains(t, out, "2020 Honda Civic")
	})
}
