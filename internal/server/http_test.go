package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"

	"github.com/teemow/geotodo/internal/logging"
)

func TestHTTPServer_Routes(t *testing.T) {
	mcpSrv := mcpserver.NewMCPServer("geotodo-test", "1.0.0", mcpserver.WithToolCapabilities(true))
	srv := NewHTTPServer(mcpSrv, false, logging.NopLogger())
	srv.SetHealthChecker(NewHealthChecker(nil))
	srv.SetMetrics(createTestProvider(t).Metrics())

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if assert.NoError(t, err) {
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/unknown")
	if assert.NoError(t, err) {
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
}

func TestStatusRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}

	sr.WriteHeader(http.StatusTeapot)
	sr.Flush()

	assert.Equal(t, http.StatusTeapot, sr.status)
	assert.True(t, rec.Flushed)
}
