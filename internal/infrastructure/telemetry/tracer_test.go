package telemetry_test

import (
	"context"
	"testing"

	"github.com/ams/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{ServiceName: "ams"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestLoggerProvider_DisabledBridgeIsBase(t *testing.T) {
	lp, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{ServiceName: "ams"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())

	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)
	bridged := lp.Bridge(base)
	assert.Same(t, base, bridged)

	bridged.Info("reindex finished")
	assert.Equal(t, 1, logs.Len())
	assert.NoError(t, lp.Shutdown(context.Background()))
}
