package tasks_tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/geotodo/internal/config"
	"github.com/teemow/geotodo/internal/logging"
	"github.com/teemow/geotodo/internal/server"
	"github.com/teemow/geotodo/internal/storage"
	"github.com/teemow/geotodo/internal/tasks"
	"github.com/teemow/geotodo/internal/toolclient"
	"github.com/teemow/geotodo/internal/tools/batch"
)

// fakeConn resolves every search to Central Park and every route to 5th Ave.
type fakeConn struct {
	err   error
	calls []string
}

func (f *fakeConn) CallTool(ctx context.Context, name string, args map[string]any) (*toolclient.Response, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return nil, f.err
	}
	content := `[{"place_id":"p1","formatted_address":"Central Park, NYC","geometry":{"location":{"lat":40.78,"lng":-73.96}}}]`
	if name == "get_directions" {
		content = `{"summary":"5th Ave","legs":[]}`
	}
	return &toolclient.Response{Content: json.RawMessage(content)}, nil
}

func (f *fakeConn) ListTools(ctx context.Context) (*toolclient.ToolList, error) {
	return &toolclient.ToolList{}, nil
}

func (f *fakeConn) Close() error { return nil }

func newTestContext(t *testing.T, conn *fakeConn) *server.ServerContext {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Store = storage.BackendMemory

	sc, err := server.NewServerContext(context.Background(), cfg,
		server.WithConn(conn),
		server.WithBackend(storage.NewMemory()),
		server.WithLogger(logging.NopLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func request(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, r)
	require.NotEmpty(t, r.Content)
	tc, ok := r.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func decodeTask(t *testing.T, r *mcp.CallToolResult) tasks.Task {
	t.Helper()
	var task tasks.Task
	require.NoError(t, json.Unmarshal([]byte(text(t, r)), &task))
	return task
}

func TestRegisterTasksTools(t *testing.T) {
	tests := []struct {
		name     string
		readOnly bool
		want     []string
	}{
		{"read only", true, []string{"tasks_list", "tasks_create", "tasks_toggle", "tasks_toggle_many", "tasks_directions"}},
		{"write", false, []string{"tasks_list", "tasks_create", "tasks_toggle", "tasks_toggle_many", "tasks_directions", "tasks_remove", "tasks_remove_many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true))
			require.NoError(t, RegisterTasksTools(s, newTestContext(t, &fakeConn{}), tt.readOnly))

			var names []string
			for name := range s.ListTools() {
				names = append(names, name)
			}
			assert.ElementsMatch(t, tt.want, names)
		})
	}
}

func TestHandleCreate(t *testing.T) {
	conn := &fakeConn{}
	sc := newTestContext(t, conn)

	result, err := handleCreate(context.Background(), request(map[string]any{
		"title":    "  Meet Bob ",
		"location": "Central Park",
		"priority": "high",
		"due":      "2024-03-12",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError, text(t, result))

	assert.JSONEq(t, text(t, result), mustJSON(t, sc.Tasks().Tasks()[0]))

	task := decodeTask(t, result)
	assert.Equal(t, "Meet Bob", task.Title)
	assert.Equal(t, tasks.PriorityHigh, task.Priority)
	assert.Equal(t, &tasks.Location{Address: "Central Park, NYC", Lat: 40.78, Lng: -73.96}, task.Location)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, []string{"search_places"}, conn.calls)
	assert.Len(t, sc.Tasks().Tasks(), 1)
}

func TestHandleCreate_Validation(t *testing.T) {
	conn := &fakeConn{}
	sc := newTestContext(t, conn)

	for _, args := range []map[string]any{
		{"title": "   ", "location": "Central Park"},
		{"title": "x", "priority": "urgent", "location": "Central Park"},
		{"title": "x", "due": "someday"},
	} {
		result, err := handleCreate(context.Background(), request(args), sc)
		require.NoError(t, err)
		assert.True(t, result.IsError, "%v", args)
	}

	assert.Empty(t, sc.Tasks().Tasks())
	assert.Empty(t, conn.calls)
}

func TestHandleCreate_LookupFailureStillCreates(t *testing.T) {
	conn := &fakeConn{err: &toolclient.TransportError{Op: "call", Tool: "search_places", StatusCode: 500}}
	sc := newTestContext(t, conn)

	result, err := handleCreate(context.Background(), request(map[string]any{
		"title":    "Meet Bob",
		"location": "Central Park",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Nil(t, decodeTask(t, result).Location)
}

func TestHandleToggleAndList(t *testing.T) {
	sc := newTestContext(t, &fakeConn{})
	ctx := context.Background()

	task, err := sc.Tasks().Create(ctx, tasks.Draft{Title: "Buy milk"}, "")
	require.NoError(t, err)
	_, err = sc.Tasks().Create(ctx, tasks.Draft{Title: "Call mom"}, "")
	require.NoError(t, err)

	result, err := handleToggle(ctx, request(map[string]any{"id": task.ID}), sc)
	require.NoError(t, err)
	assert.True(t, decodeTask(t, result).Completed)

	count := func(status string) int {
		result, err := handleList(ctx, request(map[string]any{"status": status}), sc)
		require.NoError(t, err)
		require.False(t, result.IsError)
		var list []tasks.Task
		require.NoError(t, json.Unmarshal([]byte(text(t, result)), &list))
		return len(list)
	}
	assert.Equal(t, 2, count(""))
	assert.Equal(t, 2, count("all"))
	assert.Equal(t, 1, count("pending"))
	assert.Equal(t, 1, count("completed"))

	result, err = handleList(ctx, request(map[string]any{"status": "someday"}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleToggle_NotFound(t *testing.T) {
	sc := newTestContext(t, &fakeConn{})

	result, err := handleToggle(context.Background(), request(map[string]any{"id": "missing"}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "not found")
}

func TestHandleRemove(t *testing.T) {
	sc := newTestContext(t, &fakeConn{})
	ctx := context.Background()

	task, err := sc.Tasks().Create(ctx, tasks.Draft{Title: "Buy milk"}, "")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		result, err := handleRemove(ctx, request(map[string]any{"id": task.ID}), sc)
		require.NoError(t, err)
		assert.False(t, result.IsError)
	}
	assert.Empty(t, sc.Tasks().Tasks())

	result, err := handleRemove(ctx, request(map[string]any{}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleDirections(t *testing.T) {
	conn := &fakeConn{}
	sc := newTestContext(t, conn)
	ctx := context.Background()

	located, err := sc.Tasks().Create(ctx, tasks.Draft{Title: "Meet Bob"}, "Central Park")
	require.NoError(t, err)
	unlocated, err := sc.Tasks().Create(ctx, tasks.Draft{Title: "Buy milk"}, "")
	require.NoError(t, err)

	result, err := handleDirections(ctx, request(map[string]any{"id": located.ID}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, text(t, result), "5th Ave")

	result, err = handleDirections(ctx, request(map[string]any{"id": unlocated.ID}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "no location")
}

func TestHandleToggleMany(t *testing.T) {
	sc := newTestContext(t, &fakeConn{})
	ctx := context.Background()

	a, err := sc.Tasks().Create(ctx, tasks.Draft{Title: "a"}, "")
	require.NoError(t, err)
	b, err := sc.Tasks().Create(ctx, tasks.Draft{Title: "b"}, "")
	require.NoError(t, err)

	result, err := handleToggleMany(ctx, request(map[string]any{"ids": []any{a.ID, "missing", b.ID}}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var summary batch.Summary
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &summary))
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, batch.StatusError, summary.Results[1].Status)
	assert.Equal(t, "now completed", summary.Results[2].Result)
	assert.Len(t, sc.Tasks().Completed(), 2)
}

func TestHandleToggleMany_BadIDs(t *testing.T) {
	sc := newTestContext(t, &fakeConn{})

	result, err := handleToggleMany(context.Background(), request(map[string]any{"ids": []any{}}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "ids cannot be empty")
}

func TestHandleRemoveMany(t *testing.T) {
	sc := newTestContext(t, &fakeConn{})
	ctx := context.Background()

	a, err := sc.Tasks().Create(ctx, tasks.Draft{Title: "a"}, "")
	require.NoError(t, err)
	_, err = sc.Tasks().Create(ctx, tasks.Draft{Title: "b"}, "")
	require.NoError(t, err)

	result, err := handleRemoveMany(ctx, request(map[string]any{"ids": a.ID}), sc)
	require.NoError(t, err)

	var summary batch.Summary
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &summary))
	assert.Equal(t, 1, summary.Successful)
	require.Len(t, sc.Tasks().Tasks(), 1)
	assert.Equal(t, "b", sc.Tasks().Tasks()[0].Title)
}
