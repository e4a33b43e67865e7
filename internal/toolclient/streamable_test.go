package toolclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/geotodo/internal/logging"
)

type fakeSession struct {
	callResult *mcp.CallToolResult
	callErr    error
	listResult *mcp.ListToolsResult
	listErr    error

	lastCall mcp.CallToolRequest
	calls    int
	closed   bool
}

func (f *fakeSession) ListTools(ctx context.Context, request mcp.ListToolsRequest) (*mcp.ListToolsResult, error) {
	return f.listResult, f.listErr
}

func (f *fakeSession) CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f.calls++
	f.lastCall = request
	return f.callResult, f.callErr
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

func newFakeStreamable(session *fakeSession) (*StreamableClient, *int) {
	dials := 0
	c := NewStreamableClient("http://example.test/mcp", "test", WithLogger(logging.NopLogger()), WithRateLimit(0, 0))
	c.dial = func(ctx context.Context) (mcpSession, error) {
		dials++
		return session, nil
	}
	return c, &dials
}

func TestStreamableClient_CallTool_TextJSON(t *testing.T) {
	session := &fakeSession{callResult: &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: `[{"place_id":"p1"}]`}},
	}}
	c, dials := newFakeStreamable(session)

	resp, err := c.CallTool(context.Background(), "search_places", map[string]any{"query": "park"})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"place_id":"p1"}]`, string(resp.Content))
	assert.Equal(t, "search_places", session.lastCall.Params.Name)
	assert.Equal(t, map[string]any{"query": "park"}, session.lastCall.Params.Arguments)

	_, err = c.CallTool(context.Background(), "search_places", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, *dials, "session should be reused")
}

func TestStreamableClient_CallTool_PlainTextBecomesJSONString(t *testing.T) {
	session := &fakeSession{callResult: &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Type: "text", Text: "Turn left at the fountain"}},
	}}
	c, _ := newFakeStreamable(session)

	resp, err := c.CallTool(context.Background(), "get_directions", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `"Turn left at the fountain"`, string(resp.Content))
}

func TestStreamableClient_CallTool_StructuredContentWins(t *testing.T) {
	session := &fakeSession{callResult: &mcp.CallToolResult{
		Content:           []mcp.Content{mcp.TextContent{Type: "text", Text: "ignored"}},
		StructuredContent: map[string]any{"summary": "I-90 W"},
	}}
	c, _ := newFakeStreamable(session)

	resp, err := c.CallTool(context.Background(), "get_directions", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"I-90 W"}`, string(resp.Content))
}

func TestStreamableClient_CallTool_NoContent(t *testing.T) {
	session := &fakeSession{callResult: &mcp.CallToolResult{}}
	c, _ := newFakeStreamable(session)

	resp, err := c.CallTool(context.Background(), "search_places", nil)
	require.NoError(t, err)
	assert.True(t, resp.Empty())
}

func TestStreamableClient_CallTool_IsErrorIsTransportError(t *testing.T) {
	session := &fakeSession{callResult: &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: "quota exceeded"}},
	}}
	c, _ := newFakeStreamable(session)

	_, err := c.CallTool(context.Background(), "search_places", nil)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.Error(), "quota exceeded")
}

func TestStreamableClient_CallTool_SessionError(t *testing.T) {
	session := &fakeSession{callErr: errors.New("stream reset")}
	c, _ := newFakeStreamable(session)

	_, err := c.CallTool(context.Background(), "search_places", nil)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, session.calls)
}

func TestStreamableClient_ConnectFailure(t *testing.T) {
	c := NewStreamableClient("http://example.test/mcp", "test", WithLogger(logging.NopLogger()), WithRateLimit(0, 0))
	c.dial = func(ctx context.Context) (mcpSession, error) {
		return nil, errors.New("connection refused")
	}

	_, err := c.CallTool(context.Background(), "search_places", nil)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "connect", te.Op)
}

func TestStreamableClient_ListTools(t *testing.T) {
	session := &fakeSession{listResult: &mcp.ListToolsResult{
		Tools: []mcp.Tool{{Name: "search_places"}, {Name: "nearby_search"}},
	}}
	c, _ := newFakeStreamable(session)

	list, err := c.ListTools(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"search_places", "nearby_search"}, list.Names())
}

func TestStreamableClient_Close(t *testing.T) {
	session := &fakeSession{callResult: &mcp.CallToolResult{}}
	c, dials := newFakeStreamable(session)

	// Closing before any call is a no-op
	require.NoError(t, c.Close())
	assert.Zero(t, *dials)

	_, err := c.CallTool(context.Background(), "search_places", nil)
	require.NoError(t, err)
	require.NoError(t, c.Close())
	assert.True(t, session.closed)
}

// countingTransport counts requests passing through an http.Client.
type countingTransport struct {
	requests atomic.Int32
	agent    atomic.Value
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.requests.Add(1)
	c.agent.Store(req.Header.Get("User-Agent"))
	return http.DefaultTransport.RoundTrip(req)
}

func TestStreamableClient_UsesConfiguredHTTPClient(t *testing.T) {
	mcpSrv := mcpserver.NewMCPServer("maps", "1.0.0", mcpserver.WithToolCapabilities(false))
	mcpSrv.AddTool(mcp.NewTool("search_places", mcp.WithString("query")),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(`[{"name":"Central Park"}]`), nil
		})
	ts := httptest.NewServer(mcpserver.NewStreamableHTTPServer(mcpSrv))
	defer ts.Close()

	rt := &countingTransport{}
	c := NewStreamableClient(ts.URL+"/mcp", "test",
		WithHTTPClient(&http.Client{Transport: rt}),
		WithUserAgent("geotodo-test"),
		WithLogger(logging.NopLogger()),
		WithRateLimit(0, 0))
	defer func() { _ = c.Close() }()

	resp, err := c.CallTool(context.Background(), "search_places", map[string]any{"query": "Central Park"})
	require.NoError(t, err)

	assert.JSONEq(t, `[{"name":"Central Park"}]`, string(resp.Content))
	assert.GreaterOrEqual(t, rt.requests.Load(), int32(2))
	assert.Equal(t, "geotodo-test", rt.agent.Load())
}
