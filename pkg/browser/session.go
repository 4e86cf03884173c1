// Package browser is the interactive controller over the catalog.
//
// A Session owns all browsing state: load status, the record list, the
// favorites store, the current filter criteria and the detail overlay.
// User interactions arrive as Command values through Dispatch, and every
// Dispatch returns the freshly rendered View. A Session is owned by one
// goroutine and is not safe for concurrent use.
package browser

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/carmap/pkg/catalog"
	"github.com/agentstation/carmap/pkg/favorites"
	"github.com/agentstation/carmap/pkg/filter"
	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/present"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Status is the catalog load state.
type Status int

// Load states. Failed is terminal.
const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "loading"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Session is the browsing state of one user.
type Session struct {
	source    catalog.Source
	store     *favorites.Store
	logger    *zerolog.Logger
	formatter *present.Formatter

	status  Status
	loadErr error
	records []vehicles.Vehicle
	makes   []string
	types   []string

	criteria filter.Criteria
	overlay  overlay
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithFormatter sets the formatter used for view models.
func WithFormatter(f *present.Formatter) Option {
	return func(s *Session) { s.formatter = f }
}

// NewSession returns a session in the Loading state. store may be nil,
// in which case favorites live only in memory.
func NewSession(source catalog.Source, store *favorites.Store, opts ...Option) *Session {
	s := &Session{
		source:   source,
		store:    store,
		criteria: filter.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = favorites.NewStore(favorites.NewMemoryStorage())
	}
	if s.formatter == nil {
		s.formatter = present.NewFormatter(defaultLanguage)
	}
	s.logger = logging.OrNop(s.logger)
	return s
}

// Load reads persisted favorites and fetches the catalog. It runs once:
// later calls return the first outcome, so a failed load is never retried.
func (s *Session) Load(ctx context.Context) error {
	if s.status != StatusLoading {
		return s.loadErr
	}

	s.store.Load()

	records, err := catalog.Load(ctx, s.source, s.logger)
	if err != nil {
		s.status = StatusFailed
		s.loadErr = err
		return err
	}

	s.records = records
	s.makes = vehicles.Makes(records)
	s.types = vehicles.Types(records)
	s.status = StatusReady
	return nil
}

// Status returns the load state.
func (s *Session) Status() Status {
	return s.status
}

// Err returns the load error of a failed session.
func (s *Session) Err() error {
	return s.loadErr
}

// Criteria returns the current criteria.
func (s *Session) Criteria() filter.Criteria {
	return s.criteria
}

// Dispatch applies cmd and renders the resulting view. The view is rendered
// even when cmd fails.
func (s *Session) Dispatch(cmd Command) (View, error) {
	err := cmd.apply(s)
	if err != nil {
		s.logger.Warn().Err(err).Str("command", cmd.name()).Msg("Command failed")
	}
	return s.View(), err
}

// Results returns the filtered, ordered records for the current criteria.
func (s *Session) Results() []vehicles.Vehicle {
	return filter.Apply(s.records, s.criteria, s.store)
}
