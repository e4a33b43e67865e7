package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/geotodo/internal/instrumentation"
	"github.com/teemow/geotodo/internal/logging"
)

// MCPEndpointPath is where the streamable HTTP transport is mounted.
const MCPEndpointPath = "/mcp"

// HTTPServer exposes an MCP server over the streamable HTTP transport, next
// to the health endpoints. It does not authenticate clients; run it behind a
// trusted proxy or on localhost.
type HTTPServer struct {
	mcpServer        *mcpserver.MCPServer
	disableStreaming bool

	mu         sync.Mutex
	httpServer *http.Server
	addr       string
	health     *HealthChecker
	metrics    *instrumentation.Metrics
	logger     logging.Logger
}

// NewHTTPServer creates a streamable HTTP server for mcpServer.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, disableStreaming bool, logger logging.Logger) *HTTPServer {
	return &HTTPServer{
		mcpServer:        mcpServer,
		disableStreaming: disableStreaming,
		logger:           logging.OrDefault(logger),
	}
}

// SetHealthChecker mounts /healthz, /readyz and /healthz/detailed.
func (s *HTTPServer) SetHealthChecker(h *HealthChecker) {
	s.health = h
}

// SetMetrics records every request in the HTTP metrics.
func (s *HTTPServer) SetMetrics(m *instrumentation.Metrics) {
	s.metrics = m
}

// Handler returns the routed handler.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	var mcpHandler http.Handler
	if s.disableStreaming {
		mcpHandler = mcpserver.NewStreamableHTTPServer(s.mcpServer,
			mcpserver.WithEndpointPath(MCPEndpointPath),
			mcpserver.WithDisableStreaming(true),
		)
	} else {
		mcpHandler = mcpserver.NewStreamableHTTPServer(s.mcpServer,
			mcpserver.WithEndpointPath(MCPEndpointPath),
		)
	}
	mux.Handle(MCPEndpointPath, mcpHandler)

	if s.health != nil {
		s.health.RegisterHealthEndpoints(mux)
	}

	return s.instrument(mux)
}

// Start listens on addr and serves until Shutdown.
func (s *HTTPServer) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	s.logger.Info("starting MCP HTTP server", "addr", ln.Addr().String(), "endpoint", MCPEndpointPath)
	return srv.Serve(ln)
}

// Addr returns the bound address once the server is started.
func (s *HTTPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Shutdown gracefully shuts down the server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

func (s *HTTPServer) instrument(next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
