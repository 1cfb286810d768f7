package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"blogplatform/internal/config"
	"blogplatform/internal/models"
	"blogplatform/internal/reqctx"
)

func TestWithCtxAddsRequestFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Log
	Log = zap.New(core)
	defer func() { Log = prev }()

	ctx := reqctx.WithRequestID(context.Background(), "rid-1")
	ctx = reqctx.WithActor(ctx, models.Actor{ID: "u1", Role: models.RoleUser})
	WithCtx(ctx).Info("hello")
	WithCtx(context.Background()).Info("anon")

	entries := logs.All()
	assert.Len(t, entries, 2)
	fields := entries[0].ContextMap()
	assert.Equal(t, "rid-1", fields["request_id"])
	assert.Equal(t, "u1", fields["user_id"])
	assert.Empty(t, entries[1].ContextMap())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestInitLoggerWritesJSONFile(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()

	dir := t.TempDir()
	InitLogger(&config.Config{LogDir: dir, LogLevel: "info", Env: "test"})
	Log.Info("файловый лог")
	_ = Log.Sync()

	raw, err := os.ReadFile(filepath.Join(dir, logFile))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"service":"blogplatform"`)
	assert.Contains(t, string(raw), `"env":"test"`)
}
