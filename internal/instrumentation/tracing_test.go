package instrumentation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordSpans installs a recording global tracer provider for the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestStartToolSpan(t *testing.T) {
	rec := recordSpans(t)

	_, span := StartToolSpan(context.Background(), "tasks_create")
	EndSpan(span, nil)
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "tool.tasks_create", ended[0].Name())
	assert.Equal(t, trace.SpanKindServer, ended[0].SpanKind())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
	assert.Equal(t, "tasks_create", attrs(ended[0])[SpanAttrTool].AsString())
}

func TestStartToolCallSpan(t *testing.T) {
	rec := recordSpans(t)

	_, span := StartToolCallSpan(context.Background(), "search_places", "rest")
	EndSpan(span, errors.New("connection refused"))
	span.End()

	_, bare := StartToolCallSpan(context.Background(), "get_directions", "")
	bare.End()

	ended := rec.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, "toolclient.search_places", ended[0].Name())
	assert.Equal(t, trace.SpanKindClient, ended[0].SpanKind())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "connection refused", ended[0].Status().Description)
	assert.Equal(t, "rest", attrs(ended[0])[SpanAttrTransport].AsString())
	require.Len(t, ended[0].Events(), 1)

	assert.NotContains(t, attrs(ended[1]), attribute.Key(SpanAttrTransport))
}

func TestStartTaskSpan_NestsUnderParent(t *testing.T) {
	rec := recordSpans(t)

	ctx, parent := StartToolSpan(context.Background(), "tasks_create")
	_, child := StartTaskSpan(ctx, TaskOpCreate)
	child.End()
	parent.End()

	ended := rec.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "tasks.create", ended[0].Name())
	assert.Equal(t, ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())
	assert.Equal(t, TaskOpCreate, attrs(ended[0])[SpanAttrTaskOp].AsString())
}

func TestMarkToolError(t *testing.T) {
	rec := recordSpans(t)

	_, span := StartToolSpan(context.Background(), "tasks_toggle")
	MarkToolError(span)
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.True(t, attrs(ended[0])[SpanAttrToolError].AsBool())
}

func TestTraceID(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))

	recordSpans(t)
	ctx, span := StartToolSpan(context.Background(), "maps_search_places")
	defer span.End()

	assert.Len(t, TraceID(ctx), 32)
	assert.Equal(t, span.SpanContext().TraceID().String(), TraceID(ctx))
}
