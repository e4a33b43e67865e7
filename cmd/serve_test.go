package cmd

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/geotodo/internal/config"
	"github.com/teemow/geotodo/internal/logging"
	"github.com/teemow/geotodo/internal/server"
	"github.com/teemow/geotodo/internal/storage"
)

func newDocsServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Store = storage.BackendMemory

	sc, err := server.NewServerContext(context.Background(), cfg,
		server.WithLogger(logging.NopLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func registeredToolNames(t *testing.T, readOnly bool) []string {
	t.Helper()
	mcpSrv, err := newMCPServer(newDocsServerContext(t), readOnly)
	require.NoError(t, err)

	names := make([]string, 0)
	for name := range mcpSrv.ListTools() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestRegisterAllTools_ReadOnly(t *testing.T) {
	names := registeredToolNames(t, true)

	assert.Contains(t, names, "maps_search_places")
	assert.Contains(t, names, "maps_get_directions")
	assert.Contains(t, names, "tasks_create")
	assert.Contains(t, names, "tasks_toggle")
	assert.NotContains(t, names, "tasks_remove")
	assert.NotContains(t, names, "tasks_remove_many")
}

func TestRegisterAllTools_Yolo(t *testing.T) {
	names := registeredToolNames(t, false)

	assert.Equal(t, []string{
		"maps_get_directions",
		"maps_get_nearby_places",
		"maps_get_place_details",
		"maps_search_places",
		"maps_suggest_locations",
		"tasks_create",
		"tasks_directions",
		"tasks_list",
		"tasks_remove",
		"tasks_remove_many",
		"tasks_toggle",
		"tasks_toggle_many",
	}, names)
}

func TestRunServe_UnsupportedTransport(t *testing.T) {
	err := runServe(serveOptions{transport: "sse"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported transport type")
}
