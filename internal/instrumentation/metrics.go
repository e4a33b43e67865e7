package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	EnrichmentMatched = "matched"
	EnrichmentNoMatch = "no_match"
	EnrichmentError   = "error"

	TaskOpLoad   = "load"
	TaskOpCreate = "create"
	TaskOpToggle = "toggle"
	TaskOpRemove = "remove"
)

// Metric attribute keys
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrResult    = "result"
	attrTool      = "tool"
)

// Metrics provides methods for recording observability metrics.
//
// A nil *Metrics, or one returned by a disabled Provider, records nothing, so
// components can hold one unconditionally.
type Metrics struct {
	// HTTP transport metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Remote tool call metrics
	toolCallsTotal   metric.Int64Counter
	toolCallDuration metric.Float64Histogram

	// Task store metrics
	taskOperationsTotal metric.Int64Counter

	// Enrichment metrics
	enrichmentResultsTotal metric.Int64Counter

	// Served MCP tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram
}

var (
	// Remote tool calls are bounded by the client timeout, 30s by default.
	callBuckets    = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
	requestBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
)

// NewMetrics creates every instrument on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	counters := []struct {
		dst              *metric.Int64Counter
		name, desc, unit string
	}{
		{&m.httpRequestsTotal, "http_requests_total", "Total number of HTTP requests to the MCP server", "{request}"},
		{&m.toolCallsTotal, "tool_calls_total", "Total number of remote tool calls", "{call}"},
		{&m.taskOperationsTotal, "task_operations_total", "Total number of task store operations", "{operation}"},
		{&m.enrichmentResultsTotal, "enrichment_results_total", "Total number of location enrichment attempts by outcome", "{attempt}"},
		{&m.toolInvocationsTotal, "mcp_tool_invocations_total", "Total number of MCP tool invocations", "{invocation}"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
		*c.dst = counter
	}

	histograms := []struct {
		dst        *metric.Float64Histogram
		name, desc string
		buckets    []float64
	}{
		{&m.httpRequestDuration, "http_request_duration_seconds", "HTTP request duration in seconds", requestBuckets},
		{&m.toolCallDuration, "tool_call_duration_seconds", "Remote tool call duration in seconds", callBuckets},
		{&m.toolDuration, "mcp_tool_duration_seconds", "MCP tool execution duration in seconds", callBuckets},
	}
	for _, h := range histograms {
		histogram, err := meter.Float64Histogram(h.name,
			metric.WithDescription(h.desc),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(h.buckets...))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s histogram: %w", h.name, err)
		}
		*h.dst = histogram
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request served by the streamable HTTP transport.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.Int(attrStatus, statusCode),
	)

	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordToolCall records a call to the remote tool server.
//
// Parameters:
//   - tool: remote tool name (search_places, get_directions, ...)
//   - status: StatusSuccess or StatusError
//   - duration: time from request start to decoded response
func (m *Metrics) RecordToolCall(ctx context.Context, tool, status string, duration time.Duration) {
	if m == nil || m.toolCallsTotal == nil || m.toolCallDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrTool, tool),
		attribute.String(attrStatus, status),
	)

	m.toolCallsTotal.Add(ctx, 1, attrs)
	m.toolCallDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordTaskOperation records a task store operation (see the TaskOp constants).
func (m *Metrics) RecordTaskOperation(ctx context.Context, operation, status string) {
	if m == nil || m.taskOperationsTotal == nil {
		return
	}

	m.taskOperationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	))
}

// RecordEnrichment records the outcome of a location enrichment attempt.
// Result should be one of EnrichmentMatched, EnrichmentNoMatch, EnrichmentError.
func (m *Metrics) RecordEnrichment(ctx context.Context, result string) {
	if m == nil || m.enrichmentResultsTotal == nil {
		return
	}

	m.enrichmentResultsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}

// RecordToolInvocation records an invocation of one of our own MCP tools.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	)

	m.toolInvocationsTotal.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, duration.Seconds(), attrs)
}
