package telemetry

import (
	"context"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler_DisabledIsNoop(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_RequiresAddressAndName(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "ams"}, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "server address")

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://pyroscope:4040"}, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "application name")
}

func TestProfileTypes(t *testing.T) {
	base := profileTypes(false)
	assert.Contains(t, base, pyroscope.ProfileCPU)
	assert.NotContains(t, base, pyroscope.ProfileMutexCount)

	all := profileTypes(true)
	assert.Len(t, all, len(base)+4)
	assert.Contains(t, all, pyroscope.ProfileBlockDuration)
}

func TestEnableSpanProfiles_NoopWhenTracingDisabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{ServiceName: "ams"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	tp.EnableSpanProfiles()
	assert.False(t, tp.SpanProfilesEnabled())
	assert.NotNil(t, tp.Tracer("test"))
}
