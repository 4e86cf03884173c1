// Package application defines what carmap commands and the HTTP server need
// from the running application.
//
// Commands accept the Application interface rather than the concrete App from
// cmd/carmap/app, so they can be exercised with a Mock:
//
//	mock := &application.Mock{
//	    ClientFunc: func() (carmap.Client, error) { return client, nil },
//	}
//	cmd := list.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/carmap"
)

// Application provides the shared dependencies of every command.
//
// All methods must be safe for concurrent use; the server calls them from
// request goroutines.
type Application interface {
	// Client returns the lazily created carmap client. It does not fetch
	// the catalog; callers run Client.Load.
	Client() (carmap.Client, error)

	// Logger returns the configured logger.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
