package common

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/geotodo/internal/config"
	"github.com/teemow/geotodo/internal/instrumentation"
	"github.com/teemow/geotodo/internal/logging"
	"github.com/teemow/geotodo/internal/server"
	"github.com/teemow/geotodo/internal/storage"
	"github.com/teemow/geotodo/internal/toolclient"
)

type nopConn struct{}

func (nopConn) CallTool(ctx context.Context, name string, args map[string]any) (*toolclient.Response, error) {
	return &toolclient.Response{}, nil
}

func (nopConn) ListTools(ctx context.Context) (*toolclient.ToolList, error) {
	return &toolclient.ToolList{}, nil
}

func (nopConn) Close() error { return nil }

func newServerContext(t *testing.T, opts ...server.Option) *server.ServerContext {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Store = storage.BackendMemory

	base := []server.Option{
		server.WithConn(nopConn{}),
		server.WithBackend(storage.NewMemory()),
		server.WithLogger(logging.NopLogger()),
	}
	sc, err := server.NewServerContext(context.Background(), cfg, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestInstrumentedToolHandler_Success(t *testing.T) {
	sc := newServerContext(t)

	called := false
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("success"), nil
	}

	result, err := InstrumentedToolHandler("test_tool", sc, handler)(context.Background(), mcp.CallToolRequest{})

	require.NoError(t, err)
	assert.True(t, called)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
}

func TestInstrumentedToolHandler_Error(t *testing.T) {
	sc := newServerContext(t)

	expectedErr := errors.New("test error")
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, expectedErr
	}

	_, err := InstrumentedToolHandler("test_tool", sc, handler)(context.Background(), mcp.CallToolRequest{})
	assert.Equal(t, expectedErr, err)
}

func TestInstrumentedToolHandler_ErrorResult(t *testing.T) {
	sc := newServerContext(t)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("error message"), nil
	}

	result, err := InstrumentedToolHandler("test_tool", sc, handler)(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestInstrumentedToolHandler_WithMetrics(t *testing.T) {
	ctx := context.Background()
	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: instrumentation.ExporterStdout,
		TracingExporter: instrumentation.ExporterNone,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	sc := newServerContext(t, server.WithInstrumentation(provider))
	require.NotNil(t, sc.Metrics())

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("success"), nil
	}

	result, err := InstrumentedToolHandler("maps_search_places", sc, handler)(ctx, mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.NotNil(t, result)
}
