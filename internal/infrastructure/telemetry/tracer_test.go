package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	tp, err := NewTracerProvider(ctx, Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:4317",
		SamplingRatio:     1.0,
		ServiceName:       "showring-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProvider_NilLogger(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{}, nil)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  string
	}{
		{"always", 1.0, sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{"never", 0, sdktrace.NeverSample().Description()},
		{"negative clamps to never", -1, sdktrace.NeverSample().Description()},
		{"ratio", 0.25, sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.25)).Description()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, samplerFor(tt.ratio).Description())
		})
	}
}
