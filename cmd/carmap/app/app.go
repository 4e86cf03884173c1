// Package app provides the application context and dependency management
// for the carmap CLI: configuration, logging, and the shared carmap client.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/carmap"
	"github.com/agentstation/carmap/cmd/application"
	"github.com/agentstation/carmap/pkg/errors"
)

// Compile-time interface check.
var _ application.Application = (*App)(nil)

// App represents the carmap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	out    io.Writer

	// Client is created lazily and shared by every command.
	mu     sync.RWMutex
	client carmap.Client
}

// New creates an App with configuration loaded from the default locations.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the --format value, empty for auto-detection.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Client returns the carmap client, creating it on first use.
func (a *App) Client() (carmap.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		return a.client, nil
	}

	opts, err := a.clientOptions()
	if err != nil {
		return nil, err
	}
	c, err := carmap.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	a.client = c
	return c, nil
}

// clientOptions builds carmap options from the configuration.
func (a *App) clientOptions() ([]carmap.Option, error) {
	path, err := a.config.ResolvedFavoritesPath()
	if err != nil {
		return nil, err
	}
	a.logger.Debug().
		Str("catalog", a.config.CatalogSource).
		Str("favorites_backend", a.config.FavoritesBackend).
		Str("favorites_path", path).
		Msg("Creating client")

	return []carmap.Option{
		carmap.WithSourceRef(a.config.CatalogSource),
		carmap.WithHTTPClient(&http.Client{Timeout: a.config.FetchTimeout}),
		carmap.WithStorageBackend(a.config.FavoritesBackend, path),
		carmap.WithLogger(a.logger),
	}, nil
}

// Shutdown releases the client and its favorites storage.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client == nil {
		return nil
	}
	err := a.client.Close()
	a.client = nil
	return err
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return &errors.ValidationError{Field: "config", Message: "cannot be nil"}
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets the carmap client (useful for testing).
func WithClient(c carmap.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}

// WithOutput redirects command output, which defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}
