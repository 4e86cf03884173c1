package carmap_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/carmap"
	pkgerrors "github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/favorites"
	"github.com/agentstation/carmap/pkg/filter"
	"github.com/agentstation/carmap/pkg/vehicles"
)

const cars = `[
  {"id": 1, "make": "Honda", "model": "Civic", "year": 2020, "price": 20000, "mileage": 30000, "type": "Sedan", "transmission": "Automatic"},
  {"id": 2, "make": "Toyota", "model": "RAV4", "year": 2022, "price": 30000, "mileage": 12000, "type": "SUV", "transmission": "Automatic"},
  {"id": 3, "make": "Ford", "model": "F-150", "year": 2019, "price": 35000, "mileage": 45000, "type": "Truck", "transmission": "Automatic"}
]`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cars.json")
	require.NoError(t, os.WriteFile(path, []byte(cars), 0o644))
	return path
}

func newLoaded(t *testing.T, opts ...carmap.Option) carmap.Client {
	t.Helper()
	opts = append([]carmap.Option{carmap.WithSourceRef(writeCatalog(t))}, opts...)
	cm, err := carmap.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cm.Close() })
	require.NoError(t, cm.Load(context.Background()))
	return cm
}

func TestClientLoad(t *testing.T) {
	t.Run("before load", func(t *testing.T) {
		cm, err := carmap.New(carmap.WithSourceRef(writeCatalog(t)))
		require.NoError(t, err)
		defer cm.Close()

		assert.Equal(t, carmap.StatusLoading, cm.Status())
		_, err = cm.Vehicles()
		assert.ErrorIs(t, err, pkgerrors.ErrCatalogUnavailable)
	})

	t.Run("embedded", func(t *testing.T) {
		cm, err := carmap.New()
		require.NoError(t, err)
		defer cm.Close()

		var loaded int
		cm.OnCatalogLoaded(func(n int) { loaded = n })
		require.NoError(t, cm.Load(context.Background()))
		assert.Equal(t, carmap.StatusReady, cm.Status())

		records, err := cm.Vehicles()
		require.NoError(t, err)
		assert.Equal(t, len(records), loaded)
		assert.Positive(t, loaded)
	})

	t.Run("failure is terminal", func(t *testing.T) {
		hits := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		cm, err := carmap.New(carmap.WithSourceRef(srv.URL), carmap.WithHTTPClient(srv.Client()))
		require.NoError(t, err)
		defer cm.Close()

		var failed error
		cm.OnLoadFailed(func(err error) { failed = err })

		err = cm.Load(context.Background())
		require.Error(t, err)
		assert.True(t, pkgerrors.IsFetchError(err))
		assert.Equal(t, err, failed)
		assert.Equal(t, carmap.StatusFailed, cm.Status())

		assert.Error(t, cm.Load(context.Background()))
		assert.Equal(t, 1, hits)

		_, err = cm.Browse(filter.Criteria{})
		assert.True(t, pkgerrors.IsFetchError(err))
	})
}

func TestClientBrowse(t *testing.T) {
	cm := newLoaded(t)

	results, err := cm.Browse(filter.Criteria{Sort: filter.SortPriceDesc})
	require.NoError(t, err)
	require.Equal(t, 3, results.Count)
	assert.Equal(t, vehicles.ID("3"), results.Vehicles[0].ID)
	assert.Equal(t, "$35,000", results.Vehicles[0].Price)

	found, err := cm.Search(filter.Criteria{YearMin: filter.At(2021)})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, vehicles.ID("2"), found[0].ID)

	makes, err := cm.Makes()
	require.NoError(t, err)
	assert.Equal(t, []string{"Ford", "Honda", "Toyota"}, makes)

	types, err := cm.Types()
	require.NoError(t, err)
	assert.Equal(t, []string{"SUV", "Sedan", "Truck"}, types)

	d, err := cm.Detail("1")
	require.NoError(t, err)
	assert.Equal(t, "2020 Honda Civic", d.Title)

	_, err = cm.Detail("99")
	assert.True(t, pkgerrors.IsNotFound(err))
	_, err = cm.Vehicle("99")
	assert.True(t, pkgerrors.IsNotFound(err))

	v, err := cm.Vehicle("2")
	require.NoError(t, err)
	assert.Equal(t, "Toyota", v.Make)
}

func TestClientFavorites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")
	cm := newLoaded(t, carmap.WithStorageBackend(favorites.BackendFile, path))

	var events []bool
	cm.OnFavoriteToggled(func(id vehicles.ID, fav bool, count int) {
		assert.Equal(t, vehicles.ID("2"), id)
		events = append(events, fav)
	})

	fav, err := cm.ToggleFavorite("2")
	require.NoError(t, err)
	assert.True(t, fav)
	assert.True(t, cm.IsFavorite("2"))
	assert.Equal(t, []vehicles.ID{"2"}, cm.Favorites())

	results, err := cm.Browse(filter.Criteria{FavoritesOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, results.Count)
	assert.Equal(t, 1, results.FavoritesCount)
	assert.True(t, results.Vehicles[0].Favorite)

	_, err = cm.ToggleFavorite("404")
	assert.True(t, pkgerrors.IsNotFound(err))

	t.Run("persisted across clients", func(t *testing.T) {
		other, err := carmap.New(carmap.WithSourceRef(writeCatalog(t)), carmap.WithStorageBackend(favorites.BackendFile, path))
		require.NoError(t, err)
		defer other.Close()
		assert.Equal(t, 1, other.FavoritesCount())
	})

	fav, err = cm.ToggleFavorite("2")
	require.NoError(t, err)
	assert.False(t, fav)
	assert.Equal(t, 0, cm.FavoritesCount())
	assert.Equal(t, []bool{true, false}, events)
}

func TestClientConcurrentAccess(t *testing.T) {
	cm := newLoaded(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := cm.Browse(filter.Criteria{Sort: filter.SortYearDesc})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := cm.ToggleFavorite("1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	// An even number of toggles leaves the set empty.
	assert.Equal(t, 0, cm.FavoritesCount())
}

func TestOptions(t *testing.T) {
	_, err := carmap.New(carmap.WithStorageBackend("redis", "x"))
	assert.True(t, pkgerrors.IsValidationError(err))

	_, err = carmap.New(carmap.WithStorageBackend(favorites.BackendBolt, ""))
	assert.True(t, pkgerrors.IsValidationError(err))

	_, err = carmap.New(carmap.WithSource(nil))
	assert.True(t, pkgerrors.IsValidationError(err))

	storage := favorites.NewMemoryStorage()
	require.NoError(t, storage.Set("cars", []byte(`["3"]`)))
	cm, err := carmap.New(carmap.WithStorage(storage), carmap.WithFavoritesKey("cars"))
	require.NoError(t, err)
	assert.Equal(t, []vehicles.ID{"3"}, cm.Favorites())
}
