package telemetry

import (
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProfilerConfig
	}{
		{"missing server address", ProfilerConfig{Enabled: true, ApplicationName: "crm-backend"}},
		{"missing application name", ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProfiler(tt.cfg, zap.NewNop())
			assert.Error(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestProfileTypes(t *testing.T) {
	base := profileTypes(ProfilerConfig{})
	assert.Contains(t, base, pyroscope.ProfileCPU)
	assert.Contains(t, base, pyroscope.ProfileInuseSpace)
	assert.NotContains(t, base, pyroscope.ProfileMutexCount)
	assert.NotContains(t, base, pyroscope.ProfileBlockCount)

	all := profileTypes(ProfilerConfig{MutexProfileFraction: 5, BlockProfileRate: 5})
	assert.Len(t, all, len(base)+4)
	assert.Contains(t, all, pyroscope.ProfileMutexDuration)
	assert.Contains(t, all, pyroscope.ProfileBlockDuration)
}
