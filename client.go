// Package carmap is the entry point for the carmap vehicle catalog browser.
//
// A Client loads the vehicle catalog once from its source, holds the
// persisted favorites set, and answers filtered, sorted queries over the
// catalog. It is safe for concurrent use: reads share an immutable snapshot
// of the catalog and favorite toggles are serialized.
//
//	cm, err := carmap.New(
//	    carmap.WithSourceRef("https://example.com/data/cars.json"),
//	    carmap.WithStorageBackend("file", "/home/me/.config/carmap/favorites.json"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cm.Close()
//
//	if err := cm.Load(ctx); err != nil {
//	    log.Fatal(err) // a *errors.FetchError; the load is not retried
//	}
//
//	results, _ := cm.Browse(filter.Criteria{Make: "Toyota", Sort: filter.SortPriceAsc})
//	for _, card := range results.Vehicles {
//	    fmt.Println(card.Title, card.Price)
//	}
package carmap

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/agentstation/carmap/pkg/catalog"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/favorites"
	"github.com/agentstation/carmap/pkg/filter"
	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/present"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Compile-time interface check.
var _ Client = (*client)(nil)

// Status is the catalog load state.
type Status string

// Load states. Failed is terminal.
const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Catalog provides read access to the loaded vehicles.
type Catalog interface {
	// Load fetches the catalog. Only the first call fetches; later calls
	// return its outcome.
	Load(ctx context.Context) error

	// Status returns the load state.
	Status() Status

	// Vehicles returns all records in source order.
	Vehicles() ([]vehicles.Vehicle, error)

	// Vehicle returns one record by id.
	Vehicle(id vehicles.ID) (vehicles.Vehicle, error)

	// Makes returns the sorted distinct makes.
	Makes() ([]string, error)

	// Types returns the sorted distinct types.
	Types() ([]string, error)
}

// Browser answers filtered queries and renders view models.
type Browser interface {
	// Search runs the filter and sort engine over the catalog.
	Search(c filter.Criteria) ([]vehicles.Vehicle, error)

	// Browse runs Search and renders the results as cards.
	Browse(c filter.Criteria) (Results, error)

	// Detail renders the detail view of one record.
	Detail(id vehicles.ID) (present.Detail, error)
}

// Favorites manages the persisted favorites set.
type Favorites interface {
	// ToggleFavorite flips membership of a known vehicle and persists the set.
	ToggleFavorite(id vehicles.ID) (bool, error)

	// IsFavorite reports membership.
	IsFavorite(id vehicles.ID) bool

	// Favorites returns the favorite ids in ascending order.
	Favorites() []vehicles.ID

	// FavoritesCount returns the number of favorites.
	FavoritesCount() int
}

// Client combines catalog access, browsing, favorites and hooks.
type Client interface {
	Catalog
	Browser
	Favorites
	Hooks

	// Close releases the favorites storage.
	Close() error
}

// Results is one rendered query result.
type Results struct {
	Vehicles       []present.Card `json:"vehicles" yaml:"vehicles"`
	Count          int            `json:"count" yaml:"count"`
	FavoritesCount int            `json:"favorites_count" yaml:"favorites_count"`
}

type client struct {
	options *options
	logger  *zerolog.Logger
	source  catalog.Source
	storage favorites.Storage
	format  *present.Formatter
	*hooks

	loadMu sync.Mutex // serializes Load

	mu      sync.RWMutex
	status  Status
	loadErr error
	records []vehicles.Vehicle
	makes   []string
	types   []string
	store   *favorites.Store
}

// New creates a Client and reads the persisted favorites. The catalog is
// not fetched until Load is called.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	c := &client{
		options: o,
		logger:  logging.OrNop(o.logger),
		format:  o.formatter,
		status:  StatusLoading,
		hooks:   newHooks(),
	}
	if c.format == nil {
		c.format = present.NewFormatter(language.AmericanEnglish)
	}

	c.source = o.source
	if c.source == nil {
		c.source = catalog.SourceFor(o.sourceRef, catalog.WithHTTPClient(o.httpClient))
	}

	c.storage = o.storage
	if c.storage == nil {
		if c.storage, err = favorites.Open(o.storageBackend, o.storagePath); err != nil {
			return nil, err
		}
	}

	storeOpts := []favorites.StoreOption{favorites.WithLogger(c.logger)}
	if o.favoritesKey != "" {
		storeOpts = append(storeOpts, favorites.WithKey(o.favoritesKey))
	}
	c.store = favorites.NewStore(c.storage, storeOpts...)
	set := c.store.Load()

	c.logger.Debug().
		Str("source", c.source.Name()).
		Str("favorites_backend", o.storageBackend).
		Int("favorites", set.Len()).
		Msg("Client created")

	return c, nil
}

// Load implements Catalog.
func (c *client) Load(ctx context.Context) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	c.mu.RLock()
	status, loadErr := c.status, c.loadErr
	c.mu.RUnlock()
	if status != StatusLoading {
		return loadErr
	}

	records, err := catalog.Load(ctx, c.source, c.logger)

	c.mu.Lock()
	if err != nil {
		c.status = StatusFailed
		c.loadErr = err
	} else {
		c.status = StatusReady
		c.records = records
		c.makes = vehicles.Makes(records)
		c.types = vehicles.Types(records)
	}
	c.mu.Unlock()

	if err != nil {
		c.loadFailed(err)
		return err
	}
	c.catalogLoaded(len(records))
	return nil
}

// Status implements Catalog.
func (c *client) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// snapshot returns the loaded records, or the reason there are none.
// The caller must hold c.mu.
func (c *client) snapshot() ([]vehicles.Vehicle, error) {
	switch c.status {
	case StatusReady:
		return c.records, nil
	case StatusFailed:
		return nil, c.loadErr
	default:
		return nil, errors.ErrCatalogUnavailable
	}
}

// Vehicles implements Catalog.
func (c *client) Vehicles() ([]vehicles.Vehicle, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	records, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	return vehicles.Clone(records), nil
}

// Vehicle implements Catalog.
func (c *client) Vehicle(id vehicles.ID) (vehicles.Vehicle, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	records, err := c.snapshot()
	if err != nil {
		return vehicles.Vehicle{}, err
	}
	v, ok := vehicles.Find(records, id)
	if !ok {
		return vehicles.Vehicle{}, errors.NewNotFoundError("vehicle", id.String())
	}
	return v, nil
}

// Makes implements Catalog.
func (c *client) Makes() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, err := c.snapshot(); err != nil {
		return nil, err
	}
	return append([]string{}, c.makes...), nil
}

// Types implements Catalog.
func (c *client) Types() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, err := c.snapshot(); err != nil {
		return nil, err
	}
	return append([]string{}, c.types...), nil
}

// Search implements Browser.
func (c *client) Search(criteria filter.Criteria) ([]vehicles.Vehicle, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	records, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	return filter.Apply(records, criteria, c.store), nil
}

// Browse implements Browser.
func (c *client) Browse(criteria filter.Criteria) (Results, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	records, err := c.snapshot()
	if err != nil {
		return Results{}, err
	}
	cards := c.format.Cards(filter.Apply(records, criteria, c.store), c.store)
	return Results{
		Vehicles:       cards,
		Count:          len(cards),
		FavoritesCount: c.store.Count(),
	}, nil
}

// Detail implements Browser.
func (c *client) Detail(id vehicles.ID) (present.Detail, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	records, err := c.snapshot()
	if err != nil {
		return present.Detail{}, err
	}
	v, ok := vehicles.Find(records, id)
	if !ok {
		return present.Detail{}, errors.NewNotFoundError("vehicle", id.String())
	}
	return c.format.NewDetail(v, c.store.Contains(id)), nil
}

// ToggleFavorite implements Favorites.
func (c *client) ToggleFavorite(id vehicles.ID) (bool, error) {
	c.mu.Lock()
	records, err := c.snapshot()
	if err != nil {
		c.mu.Unlock()
		return false, err
	}
	if _, ok := vehicles.Find(records, id); !ok {
		c.mu.Unlock()
		return false, errors.NewNotFoundError("vehicle", id.String())
	}
	fav, err := c.store.Toggle(id)
	count := c.store.Count()
	c.mu.Unlock()

	if err != nil {
		c.logger.Error().Err(err).Str("vehicle_id", id.String()).Msg("Failed to persist favorites")
		return fav, err
	}

	c.logger.Debug().Str("vehicle_id", id.String()).Bool("favorite", fav).Int("count", count).Msg("Favorite toggled")
	c.favoriteToggled(id, fav, count)
	return fav, nil
}

// IsFavorite implements Favorites.
func (c *client) IsFavorite(id vehicles.ID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Contains(id)
}

// Favorites implements Favorites.
func (c *client) Favorites() []vehicles.ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.IDs()
}

// FavoritesCount implements Favorites.
func (c *client) FavoritesCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Count()
}

// Close implements Client.
func (c *client) Close() error {
	return favorites.Close(c.storage)
}
