package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer all geotodo spans are started from.
const TracerName = "github.com/teemow/geotodo"

// Span attribute keys.
const (
	SpanAttrTool       = "mcp.tool"
	SpanAttrToolError  = "mcp.tool.is_error"
	SpanAttrRemoteTool = "geotodo.remote_tool"
	SpanAttrTransport  = "geotodo.transport"
	SpanAttrTaskOp     = "geotodo.task.operation"
)

// The global provider is resolved per span so that spans follow whatever
// NewProvider installed last.
func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}

// StartToolSpan starts a server span for an invocation of a served MCP tool.
func StartToolSpan(ctx context.Context, tool string) (context.Context, trace.Span) {
	return tracer().Start(ctx, "tool."+tool,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String(SpanAttrTool, tool)))
}

// StartToolCallSpan starts a client span for a call to the remote maps tool
// server.
func StartToolCallSpan(ctx context.Context, tool, transport string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String(SpanAttrRemoteTool, tool)}
	if transport != "" {
		attrs = append(attrs, attribute.String(SpanAttrTransport, transport))
	}
	return tracer().Start(ctx, "toolclient."+tool,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...))
}

// StartTaskSpan starts a span for a task store operation.
func StartTaskSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return tracer().Start(ctx, "tasks."+op,
		trace.WithAttributes(attribute.String(SpanAttrTaskOp, op)))
}

// EndSpan sets the span status from err. It does not end the span.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

// MarkToolError flags a tool result that reported an error to the caller
// without failing the invocation itself.
func MarkToolError(span trace.Span) {
	span.SetAttributes(attribute.Bool(SpanAttrToolError, true))
	span.SetStatus(codes.Error, "tool returned an error result")
}

// TraceID returns the trace id of the span in ctx, or "" without a valid span.
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
