package favorites

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Store owns the in-memory favorites set and flushes it to Storage on every
// mutation. A Store is not safe for concurrent use.
type Store struct {
	storage Storage
	key     string
	logger  *zerolog.Logger
	set     Set
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKey overrides the storage key. The default is "favorites".
func WithKey(key string) StoreOption {
	return func(s *Store) { s.key = key }
}

// WithLogger sets the logger used for swallowed load errors.
func WithLogger(l *zerolog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// NewStore returns an empty Store over storage. Call Load to read persisted ids.
func NewStore(storage Storage, opts ...StoreOption) *Store {
	s := &Store{
		storage: storage,
		key:     constants.FavoritesKey,
		logger:  &logging.Nop,
		set:     Set{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger)
	return s
}

// Decode parses a persisted favorites value. Empty input is an empty set.
func Decode(key string, data []byte) (Set, error) {
	if len(data) == 0 {
		return Set{}, nil
	}
	var s Set
	if err := json.Unmarshal(data, &s); err != nil {
		return Set{}, &errors.StorageParseError{Key: key, Err: err}
	}
	if s == nil {
		s = Set{}
	}
	return s, nil
}

// Encode returns the canonical serialized form of s.
func Encode(s Set) ([]byte, error) {
	return json.Marshal(s)
}

// Load replaces the in-memory set with the persisted one. It never fails:
// absent, unreadable or malformed data yields an empty set.
func (s *Store) Load() Set {
	s.set = s.read()
	return s.set.Clone()
}

func (s *Store) read() Set {
	data, ok, err := s.storage.Get(s.key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("Reading favorites failed, starting empty")
		return Set{}
	}
	if !ok {
		return Set{}
	}

	set, err := Decode(s.key, data)
	if err != nil {
		s.logger.Debug().Err(err).Str("key", s.key).Msg("Discarding malformed favorites")
		return Set{}
	}
	return set
}

// Toggle flips membership of id and persists the whole set. It returns the
// new membership. If the write fails the in-memory set is left unchanged.
func (s *Store) Toggle(id vehicles.ID) (bool, error) {
	next := s.set.Clone()
	_, had := next[id]
	if had {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}

	data, err := Encode(next)
	if err != nil {
		return had, err
	}
	if err := s.storage.Set(s.key, data); err != nil {
		return had, err
	}

	s.set = next
	return !had, nil
}

// Contains reports whether id is a favorite.
func (s *Store) Contains(id vehicles.ID) bool {
	return s.set.Contains(id)
}

// Count returns the number of favorites.
func (s *Store) Count() int {
	return s.set.Len()
}

// IDs returns the favorite ids in ascending order.
func (s *Store) IDs() []vehicles.ID {
	return s.set.IDs()
}

// Snapshot returns a copy of the current set.
func (s *Store) Snapshot() Set {
	return s.set.Clone()
}
