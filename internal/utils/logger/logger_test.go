package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"golang.org/x/exp/slog"
	"skusync/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		env           string
		expectedLevel slog.Level
	}{
		{
			name:          "local environment",
			env:           config.EnvLocal,
			expectedLevel: slog.LevelDebug,
		},
		{
			name:          "dev environment",
			env:           config.EnvDev,
			expectedLevel: slog.LevelDebug,
		},
		{
			name:          "prod environment",
			env:           config.EnvProd,
			expectedLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.env)
			require.NotNil(t, logger)
			ctx := context.Background()
			assert.Equal(t, tt.expectedLevel <= slog.LevelDebug, logger.Enabled(ctx, slog.LevelDebug))
			assert.True(t, logger.Enabled(ctx, slog.LevelInfo))
		})
	}
}

func TestSetupPrettySlog(t *testing.T) {
	logger := setupPrettySlog()
	require.NotNil(t, logger)

	ctx := context.Background()
	assert.True(t, logger.Enabled(ctx, slog.LevelDebug))
}

func TestWithLevel(t *testing.T) {
	ctx := context.Background()

	warn := WithLevel(config.EnvProd, "warn")
	assert.False(t, warn.Enabled(ctx, slog.LevelInfo))
	assert.True(t, warn.Enabled(ctx, slog.LevelWarn))

	// неизвестный уровень - берем уровень по окружению
	fallback := WithLevel(config.EnvProd, "verbose")
	assert.False(t, fallback.Enabled(ctx, slog.LevelDebug))
	assert.True(t, fallback.Enabled(ctx, slog.LevelInfo))
}

func TestPrettyHandler_Output(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, slog.LevelInfo)).With("component", "test")

	log.Debug("hidden")
	log.Info("item updated", "sku", "FA00", "error", errors.New("boom"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "item updated")
	assert.Contains(t, out, `"sku":"FA00"`)
	assert.Contains(t, out, `"component":"test"`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestNewWriter(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	log := NewWriter(&buf, config.EnvLocal, "info")
	assert.False(t, log.Enabled(ctx, slog.LevelDebug))

	log.Info("plan ready", "representatives", 3)
	assert.Contains(t, buf.String(), "plan ready")
	assert.Contains(t, buf.String(), "representatives=3")

	buf.Reset()
	NewWriter(&buf, config.EnvDev, "").Debug("lookup", "sku", "FA00")
	assert.Contains(t, buf.String(), `"sku":"FA00"`)
}
