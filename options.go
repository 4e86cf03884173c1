package carmap

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/agentstation/carmap/pkg/catalog"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/favorites"
	"github.com/agentstation/carmap/pkg/present"
)

// Option is a function that configures a Client.
type Option func(*options) error

type options struct {
	sourceRef  string
	source     catalog.Source
	httpClient *http.Client

	storage        favorites.Storage
	storageBackend string
	storagePath    string
	favoritesKey   string

	logger    *zerolog.Logger
	formatter *present.Formatter
}

func defaults() *options {
	return &options{
		storageBackend: favorites.BackendMemory,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithSourceRef selects the catalog source by reference: an http(s) URL,
// a local .json/.yaml path, or "" for the embedded sample catalog.
func WithSourceRef(ref string) Option {
	return func(o *options) error {
		o.sourceRef = ref
		return nil
	}
}

// WithSource sets the catalog source directly. It takes precedence over WithSourceRef.
func WithSource(src catalog.Source) Option {
	return func(o *options) error {
		if src == nil {
			return &errors.ValidationError{Field: "source", Message: "cannot be nil"}
		}
		o.source = src
		return nil
	}
}

// WithHTTPClient sets the client used by HTTP catalog sources.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) error {
		o.httpClient = c
		return nil
	}
}

// WithStorage sets the favorites storage directly.
func WithStorage(s favorites.Storage) Option {
	return func(o *options) error {
		if s == nil {
			return &errors.ValidationError{Field: "storage", Message: "cannot be nil"}
		}
		o.storage = s
		return nil
	}
}

// WithStorageBackend selects a favorites backend (memory, file or bolt) rooted at path.
func WithStorageBackend(backend, path string) Option {
	return func(o *options) error {
		switch backend {
		case favorites.BackendMemory, favorites.BackendFile, favorites.BackendBolt:
		default:
			return &errors.ValidationError{Field: "favorites_backend", Value: backend, Message: "must be memory, file or bolt"}
		}
		if backend != favorites.BackendMemory && path == "" {
			return &errors.ValidationError{Field: "favorites_path", Message: "required for " + backend + " backend"}
		}
		o.storageBackend = backend
		o.storagePath = path
		return nil
	}
}

// WithFavoritesKey overrides the storage key holding the favorites.
func WithFavoritesKey(key string) Option {
	return func(o *options) error {
		o.favoritesKey = key
		return nil
	}
}

// WithLogger sets the client logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}

// WithFormatter sets the formatter used for cards and details.
func WithFormatter(f *present.Formatter) Option {
	return func(o *options) error {
		o.formatter = f
		return nil
	}
}
