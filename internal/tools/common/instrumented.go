package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/geotodo/internal/instrumentation"
	"github.com/teemow/geotodo/internal/logging"
	"github.com/teemow/geotodo/internal/server"
)

// ToolHandler is the handler signature used by mcp-go.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with a span, the tool
// invocation metrics and a debug log line.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			instrumentation.EndSpan(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			instrumentation.MarkToolError(span)
		default:
			instrumentation.EndSpan(span, nil)
		}

		sc.Metrics().RecordToolInvocation(ctx, toolName, status, duration)
		sc.Logger().Debug("tool invoked",
			logging.Tool(toolName),
			logging.Status(status),
			logging.Duration(duration),
			"trace_id", instrumentation.TraceID(ctx))

		return result, err
	}
}
