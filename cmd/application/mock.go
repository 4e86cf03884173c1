package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/carmap"
	"github.com/agentstation/carmap/pkg/errors"
)

// Compile-time interface check.
var _ Application = (*Mock)(nil)

// Mock is an Application whose methods delegate to optional funcs.
// Unset funcs return zero values, a nop logger, or a ConfigError for Client.
type Mock struct {
	ClientFunc       func() (carmap.Client, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionValue     string
}

// Client implements Application.
func (m *Mock) Client() (carmap.Client, error) {
	if m.ClientFunc == nil {
		return nil, errors.NewConfigError("application", "no client configured", nil)
	}
	return m.ClientFunc()
}

// Logger implements Application.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc == nil {
		l := zerolog.Nop()
		return &l
	}
	return m.LoggerFunc()
}

// OutputFormat implements Application.
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc == nil {
		return ""
	}
	return m.OutputFormatFunc()
}

// Version implements Application.
func (m *Mock) Version() string { return m.VersionValue }

// Commit implements Application.
func (m *Mock) Commit() string { return "" }

// Date implements Application.
func (m *Mock) Date() string { return "" }

// BuiltBy implements Application.
func (m *Mock) BuiltBy() string { return "" }
