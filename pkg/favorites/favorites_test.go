package favorites_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/favorites"
	"github.com/agentstation/carmap/pkg/vehicles"
)

type failingStorage struct {
	*favorites.MemoryStorage
}

func (failingStorage) Set(string, []byte) error {
	return pkgerrors.NewIOError("write", "quota", assert.AnError)
}

func TestSetJSON(t *testing.T) {
	s := favorites.NewSet("3", "10", "1")
	data, err := favorites.Encode(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["1","10","3"]`, string(data))

	decoded, err := favorites.Decode("favorites", []byte(`[1, "2", 2]`))
	require.NoError(t, err)
	assert.Equal(t, []vehicles.ID{"1", "2"}, decoded.IDs())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		wantErr bool
	}{
		{"empty", "", 0, false},
		{"null", "null", 0, false},
		{"array", `["a","b"]`, 2, false},
		{"malformed", "{not json", 0, true},
		{"object", `{"a":1}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := favorites.Decode("favorites", []byte(tt.data))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, pkgerrors.IsStorageParseError(err))
			} else {
				require.NoError(t, err)
			}
			assert.NotNil(t, s)
			assert.Equal(t, tt.want, s.Len())
		})
	}
}

func TestStoreLoadMalformed(t *testing.T) {
	storage := favorites.NewMemoryStorage()
	require.NoError(t, storage.Set("favorites", []byte("{not json")))

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	store := favorites.NewStore(storage, favorites.WithLogger(&logger))

	set := store.Load()
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, 0, store.Count())
	assert.Contains(t, buf.String(), "Discarding malformed favorites")
}

func TestStoreToggle(t *testing.T) {
	storage := favorites.NewMemoryStorage()
	require.NoError(t, storage.Set("favorites", []byte(`["2","1"]`)))

	store := favorites.NewStore(storage)
	store.Load()
	assert.Equal(t, 2, store.Count())

	t.Run("add", func(t *testing.T) {
		fav, err := store.Toggle("5")
		require.NoError(t, err)
		assert.True(t, fav)
		assert.True(t, store.Contains("5"))
		assert.Equal(t, []vehicles.ID{"1", "2", "5"}, store.IDs())

		data, _, err := storage.Get("favorites")
		require.NoError(t, err)
		assert.Equal(t, `["1","2","5"]`, string(data))
	})

	t.Run("remove restores membership and canonical form", func(t *testing.T) {
		fav, err := store.Toggle("5")
		require.NoError(t, err)
		assert.False(t, fav)
		assert.Equal(t, []vehicles.ID{"1", "2"}, store.IDs())

		data, _, err := storage.Get("favorites")
		require.NoError(t, err)
		canonical, err := favorites.Encode(favorites.NewSet("1", "2"))
		require.NoError(t, err)
		assert.Equal(t, canonical, data)
	})

	t.Run("double toggle round-trips serialized form", func(t *testing.T) {
		before, _, _ := storage.Get("favorites")
		_, err := store.Toggle("1")
		require.NoError(t, err)
		_, err = store.Toggle("1")
		require.NoError(t, err)
		after, _, _ := storage.Get("favorites")
		assert.Equal(t, before, after)
	})
}

func TestStoreToggleWriteFailure(t *testing.T) {
	store := favorites.NewStore(failingStorage{favorites.NewMemoryStorage()})
	store.Load()

	fav, err := store.Toggle("1")
	require.Error(t, err)
	assert.False(t, fav)
	assert.False(t, store.Contains("1"))
	assert.Equal(t, 0, store.Count())
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "favorites.json")
	fs := favorites.NewFileStorage(path)

	_, ok, err := fs.Get("favorites")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, fs.Set("favorites", []byte(`["1"]`)))
	require.NoError(t, fs.Set("other", []byte("x")))

	v, ok, err := fs.Get("favorites")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["1"]`, string(v))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"favorites":"[\"1\"]","other":"x"}`, string(raw))

	t.Run("malformed file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

		store := favorites.NewStore(fs)
		assert.Equal(t, 0, store.Load().Len())

		_, err := store.Toggle("9")
		require.NoError(t, err)
		v, ok, err := fs.Get("favorites")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `["9"]`, string(v))
	})
}

func TestBoltStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.db")

	bs, err := favorites.OpenBolt(path)
	require.NoError(t, err)

	store := favorites.NewStore(bs)
	store.Load()
	_, err = store.Toggle("7")
	require.NoError(t, err)
	require.NoError(t, favorites.Close(bs))

	reopened, err := favorites.Open(favorites.BackendBolt, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = favorites.Close(reopened) })

	store = favorites.NewStore(reopened)
	assert.Equal(t, []vehicles.ID{"7"}, store.Load().IDs())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := favorites.Open(favorites.BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &favorites.MemoryStorage{}, s)

	s, err = favorites.Open(favorites.BackendFile, filepath.Join(dir, "f.json"))
	require.NoError(t, err)
	assert.IsType(t, &favorites.FileStorage{}, s)
	assert.NoError(t, favorites.Close(s))

	_, err = favorites.Open("redis", "")
	require.Error(t, err)
	var cfgErr *pkgerrors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
