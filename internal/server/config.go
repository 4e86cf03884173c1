package server

import (
	"net"
	"strconv"
	"time"

	"github.com/agentstation/carmap/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Listener
	Host string
	Port int

	// API
	PathPrefix string

	// CORS
	CORSEnabled bool
	CORSOrigins []string

	// Authentication
	AuthEnabled bool
	AuthHeader  string

	// Performance
	RateLimit int // requests per minute per IP, 0 disables
	CacheTTL  time.Duration

	// HTTP timeouts. WriteTimeout does not apply to SSE and WebSocket
	// streams, which control their own deadlines.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Features
	MetricsEnabled bool
	TracingEnabled bool
}

// DefaultConfig returns the defaults used by `carmap serve`.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           8080,
		PathPrefix:     "/api/v1",
		CORSOrigins:    []string{},
		AuthHeader:     "X-API-Key",
		RateLimit:      constants.DefaultRateLimit,
		CacheTTL:       constants.CacheTTL,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   0,
		IdleTimeout:    120 * time.Second,
		MetricsEnabled: true,
		TracingEnabled: true,
	}
}

// Addr returns host:port for the listener.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
