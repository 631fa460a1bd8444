package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	require.NoError(t, InitWithExporter("flowbridge", "test", exporter))

	ctx, parent := StartSpan(context.Background(), "runtime.StartProcess order", KindInternal)
	parent.WithAttributes(map[string]string{"process.key": "order"})
	current, ok := SpanFromContext(ctx)
	assert.True(t, ok)
	assert.NotNil(t, current)

	_, child := StartSpan(ctx, "bridge.produce", KindProducer)
	EndSpan(child, errors.New("no execution"))
	EndSpan(parent, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "bridge.produce", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Equal(t, codes.Ok, spans[1].Status.Code)

	_, ok = SpanFromContext(context.Background())
	assert.False(t, ok)
	EndSpan(nil, nil)
}
