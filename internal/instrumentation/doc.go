// Package instrumentation provides OpenTelemetry instrumentation for geotodo.
//
// Observability is exposed through:
//   - OpenTelemetry metrics for remote tool calls, task store operations,
//     location enrichment outcomes and served MCP tools
//   - Distributed tracing for remote tool calls and served MCP tools
//   - Prometheus metrics export via a /metrics endpoint on a dedicated port
//   - OTLP export support for observability platforms
//
// # Metrics
//
// Remote tool calls (the maps server):
//   - tool_calls_total: Counter of tool calls by tool name and status
//   - tool_call_duration_seconds: Histogram of tool call durations
//
// Task store:
//   - task_operations_total: Counter of store operations by operation and status
//
// Location enrichment:
//   - enrichment_results_total: Counter of enrichment outcomes by result
//     (matched, no_match, error)
//
// Served MCP tools:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Configuration
//
// DefaultConfig reads the environment. A GEOTODO_ variable wins over the
// generic name listed next to it:
//   - GEOTODO_INSTRUMENTATION_ENABLED, INSTRUMENTATION_ENABLED (default: true)
//   - GEOTODO_METRICS_EXPORTER, METRICS_EXPORTER: prometheus, otlp or stdout
//   - GEOTODO_METRICS_INTERVAL: push interval for otlp and stdout metrics
//   - GEOTODO_TRACING_EXPORTER, TRACING_EXPORTER: otlp, stdout or none
//   - GEOTODO_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_ENDPOINT
//   - GEOTODO_OTLP_INSECURE
//   - GEOTODO_TRACE_SAMPLING_RATE, OTEL_TRACES_SAMPLER_ARG (default: 0.1)
//   - GEOTODO_SERVICE_NAME, OTEL_SERVICE_NAME (default: geotodo)
//   - GEOTODO_SERVICE_INSTANCE_ID
//   - GEOTODO_RESOURCE_ATTRIBUTES, OTEL_RESOURCE_ATTRIBUTES: key=value pairs
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordToolCall(ctx, "search_places", instrumentation.StatusSuccess, time.Since(start))
package instrumentation
