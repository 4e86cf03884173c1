package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/carmap/pkg/logging"
)

func TestNewLoggerFromConfig(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	t.Run("json to file with fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "carmap.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "info",
			Format: "json",
			Output: path,
			Fields: map[string]string{"component": "test"},
		})
		logger.Info().Msg("hello")
		logger.Debug().Msg("hidden")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"component":"test"`)
		assert.Contains(t, string(data), `"message":"hello"`)
		assert.NotContains(t, string(data), "hidden")
	})

	t.Run("levels", func(t *testing.T) {
		tests := []struct {
			in   string
			want zerolog.Level
		}{
			{"debug", zerolog.DebugLevel},
			{"WARNING", zerolog.WarnLevel},
			{"off", zerolog.Disabled},
			{"bogus", zerolog.InfoLevel},
			{"", zerolog.InfoLevel},
		}
		for _, tt := range tests {
			t.Run(tt.in, func(t *testing.T) {
				logger := logging.NewLoggerFromConfig(&logging.Config{Level: tt.in, Output: "discard"})
				assert.Equal(t, tt.want, logger.GetLevel())
			})
		}
	})

	t.Run("nil config", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(nil)
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}

func TestContext(t *testing.T) {
	t.Run("falls back to default", func(t *testing.T) {
		assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	})

	t.Run("request id", func(t *testing.T) {
		var buf bytes.Buffer
		base := zerolog.New(&buf)
		ctx := logging.WithLogger(context.Background(), &base)
		ctx = logging.WithRequestID(ctx, "req-1")
		ctx = logging.WithVehicle(ctx, "7")

		assert.Equal(t, "req-1", logging.RequestID(ctx))
		logging.FromContext(ctx).Info().Msg("x")
		assert.Contains(t, buf.String(), `"request_id":"req-1"`)
		assert.Contains(t, buf.String(), `"vehicle_id":"7"`)
	})

	t.Run("missing request id", func(t *testing.T) {
		assert.Empty(t, logging.RequestID(context.Background()))
	})
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, logging.OrNop(nil).GetLevel())
	l := zerolog.New(nil)
	assert.Same(t, &l, logging.OrNop(&l))
}
