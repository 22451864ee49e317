package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestObservability_Records(t *testing.T) {
	o := New("tca-workers-test")
	defer o.Shutdown()

	ctx := context.Background()
	assert.NotPanics(t, func() {
		o.RecordJobProcessed(ctx, "tca-calculate-score", "completed")
		o.RecordJobDuration(ctx, "tca-calculate-score", 15*time.Millisecond, "completed")
	})
}

func TestObservability_StartSpan(t *testing.T) {
	o := &Observability{serviceName: "tca-workers-test"}

	ctx, span := o.StartSpan(context.Background(), "backend.analyze", attribute.String("framework", "general"))
	require.NotNil(t, span)
	assert.NotNil(t, ctx)
	span.End()

	// zero value never panics
	o.RecordJobProcessed(ctx, "x", "failed")
	o.Shutdown()
}

func TestNewTracing(t *testing.T) {
	tr, err := NewTracing("tca-workers-test", "test", "http://127.0.0.1:14268/api/traces")
	require.NoError(t, err)

	tracer := tr.provider.Tracer("test")
	_, span := tracer.Start(context.Background(), "noop")
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = tr.Shutdown(ctx)
}
