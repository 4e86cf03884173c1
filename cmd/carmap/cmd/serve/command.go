// Package serve provides the HTTP API server command.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/carmap/cmd/application"
	"github.com/agentstation/carmap/internal/cmd/emoji"
	"github.com/agentstation/carmap/internal/server"
	"github.com/agentstation/carmap/pkg/constants"
)

// NewCommand creates the serve command.
func NewCommand(app application.Application) *cobra.Command {
	defaults := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "server",
		Short:   "Start the REST API server with WebSocket and SSE updates",
		Long: `Start the carmap HTTP API.

Features:
  - Vehicle search, detail, makes, types and favorites endpoints
  - WebSocket (/api/v1/updates/ws) and SSE (/api/v1/updates/stream) updates
  - Response caching, invalidated on every favorite toggle
  - Per-IP rate limiting, optional API key auth and CORS
  - Health, readiness and metrics endpoints
  - Graceful shutdown

The catalog loads in the background. Until it is ready /api/v1/ready
answers 503; if it fails to load, vehicle endpoints answer 503 with
"Failed to load data." and the server keeps running.`,
		Example: `  # Start on default port 8080
  carmap serve

  # Custom port with authentication (key read from API_KEY)
  carmap serve --port 3000 --auth

  # Allow a browser front end on another origin
  carmap serve --cors-origins "http://localhost:5173"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd, app)
		},
	}

	cmd.Flags().Int("port", defaults.Port, "Server port")
	cmd.Flags().String("host", defaults.Host, "Bind address")

	cmd.Flags().Bool("cors", false, "Enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (comma-separated)")

	cmd.Flags().Bool("auth", false, "Enable API key authentication (key from API_KEY)")
	cmd.Flags().String("auth-header", defaults.AuthHeader, "Authentication header name")

	cmd.Flags().Int("rate-limit", defaults.RateLimit, "Requests per minute per IP (0 to disable)")
	cmd.Flags().Int("cache-ttl", int(defaults.CacheTTL/time.Second), "Cache TTL in seconds")

	cmd.Flags().Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout (0 keeps streams open)")
	cmd.Flags().Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")

	cmd.Flags().Bool("metrics", defaults.MetricsEnabled, "Enable metrics endpoint")
	cmd.Flags().Bool("tracing", defaults.TracingEnabled, "Enable OpenTelemetry HTTP instrumentation")
	cmd.Flags().String("prefix", defaults.PathPrefix, "API path prefix")

	return cmd
}

func runServer(cmd *cobra.Command, app application.Application) error {
	cfg, err := parseConfig(cmd)
	if err != nil {
		return err
	}
	logger := app.Logger()

	logger.Info().
		Str("addr", cfg.Addr()).
		Str("prefix", cfg.PathPrefix).
		Bool("cors", cfg.CORSEnabled).
		Bool("auth", cfg.AuthEnabled).
		Int("rate_limit", cfg.RateLimit).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Starting API server")

	srv, err := server.New(app, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.Start()

	client, err := app.Client()
	if err != nil {
		return err
	}
	go loadCatalog(cmd.Context(), client, logger)

	return startWithGracefulShutdown(cmd.Context(), srv.HTTPServer(), srv, logger)
}

type loader interface {
	Load(ctx context.Context) error
}

// loadCatalog fetches the catalog once. Failure is logged; the server keeps
// answering health checks and reports 503 on data endpoints.
func loadCatalog(ctx context.Context, client loader, logger *zerolog.Logger) {
	if err := client.Load(ctx); err != nil {
		logger.Warn().Err(err).Msg(constants.LoadFailedMessage)
		fmt.Fprintf(os.Stderr, "%s %s Serving without a catalog.\n", emoji.Warning, constants.LoadFailedMessage)
	}
}

// parseConfig reads the flags, then applies HTTP_HOST and HTTP_PORT.
func parseConfig(cmd *cobra.Command) (server.Config, error) {
	cfg := server.Config{
		Port:           mustGetInt(cmd, "port"),
		Host:           mustGetString(cmd, "host"),
		PathPrefix:     mustGetString(cmd, "prefix"),
		CORSEnabled:    mustGetBool(cmd, "cors"),
		CORSOrigins:    mustGetStringSlice(cmd, "cors-origins"),
		AuthEnabled:    mustGetBool(cmd, "auth"),
		AuthHeader:     mustGetString(cmd, "auth-header"),
		RateLimit:      mustGetInt(cmd, "rate-limit"),
		CacheTTL:       time.Duration(mustGetInt(cmd, "cache-ttl")) * time.Second,
		ReadTimeout:    mustGetDuration(cmd, "read-timeout"),
		WriteTimeout:   mustGetDuration(cmd, "write-timeout"),
		IdleTimeout:    mustGetDuration(cmd, "idle-timeout"),
		MetricsEnabled: mustGetBool(cmd, "metrics"),
		TracingEnabled: mustGetBool(cmd, "tracing"),
	}

	if envPort := os.Getenv("HTTP_PORT"); envPort != "" {
		p, err := parsePort(envPort)
		if err != nil {
			return server.Config{}, fmt.Errorf("HTTP_PORT: %w", err)
		}
		cfg.Port = p
	}
	if envHost := os.Getenv("HTTP_HOST"); envHost != "" {
		cfg.Host = envHost
	}
	if _, err := parsePort(strconv.Itoa(cfg.Port)); err != nil {
		return server.Config{}, err
	}
	return cfg, nil
}

// parsePort parses a TCP port in 1..65535.
func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number: %s", portStr)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port out of range: %d", port)
	}
	return port, nil
}

// startWithGracefulShutdown serves until ctx is cancelled, then drains
// connections and stops the background services.
func startWithGracefulShutdown(ctx context.Context, httpServer *http.Server, srv *server.Server, logger *zerolog.Logger) error {
	serverErr := make(chan error, 1)

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		fmt.Printf("API server listening on http://%s\n", httpServer.Addr)
		fmt.Println("   Press Ctrl+C to stop")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")
		fmt.Printf("\n%s Shutting down API server...\n", emoji.Stop)

		// The parent context is already cancelled.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Background services shutdown had issues")
		}

		logger.Info().Msg("Server stopped gracefully")
		fmt.Printf("%s API server stopped gracefully\n", emoji.Success)
		return nil
	}
}

// mustGetInt retrieves an integer flag value or panics if the flag doesn't exist.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	val, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetDuration(cmd *cobra.Command, name string) time.Duration {
	val, err := cmd.Flags().GetDuration(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}
