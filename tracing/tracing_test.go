package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestEnabled(t *testing.T) {
	t.Setenv(EndpointEnv, "")
	assert.False(t, Enabled())

	t.Setenv(EndpointEnv, "http://localhost:4317")
	assert.True(t, Enabled())
}

func TestInitTracerInstallsProvider(t *testing.T) {
	t.Setenv(EndpointEnv, "http://localhost:4317")

	// the gRPC exporter connects lazily, so no collector is needed
	tp, err := InitTracer(context.Background(), "assist-test")
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		tp.Shutdown(ctx)
	})

	assert.Same(t, tp, otel.GetTracerProvider())

	carrier := propagation.MapCarrier{}
	ctx, span := otel.Tracer("test").Start(context.Background(), "op")
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	span.End()
	assert.NotEmpty(t, carrier.Get("traceparent"))
}
