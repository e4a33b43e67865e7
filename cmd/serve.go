package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/geotodo/internal/instrumentation"
	"github.com/teemow/geotodo/internal/logging"
	"github.com/teemow/geotodo/internal/resources"
	"github.com/teemow/geotodo/internal/server"
	"github.com/teemow/geotodo/internal/tools/maps_tools"
	"github.com/teemow/geotodo/internal/tools/tasks_tools"
)

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"

	metricsStartupTimeout = 5 * time.Second
)

// MetricsConfig holds configuration for the dedicated metrics server.
type MetricsConfig struct {
	// Enabled determines whether the metrics server is started.
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090").
	Addr string
}

type serveOptions struct {
	transport        string
	httpAddr         string
	yolo             bool
	disableStreaming bool
	metrics          MetricsConfig
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP server to provide maps and task tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on /mcp

Task writes other than removal are always enabled.
Use --yolo to also register tasks_remove.

Metrics:
  With streamable-http, Prometheus metrics and health probes are served on a
  dedicated port (--metrics-addr) when instrumentation uses the prometheus
  exporter.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("metrics-enabled") {
				if v := os.Getenv("METRICS_ENABLED"); v != "" {
					opts.metrics.Enabled = v == "true"
				}
			}
			if !cmd.Flags().Changed("metrics-addr") {
				if addr := os.Getenv("METRICS_ADDR"); addr != "" {
					opts.metrics.Addr = addr
				}
			}
			return runServe(opts)
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", transportStdio, "MCP transport: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.yolo, "yolo", false, "Enable destructive operations (task removal)")
	cmd.Flags().BoolVar(&opts.disableStreaming, "disable-streaming", false, "Disable streaming for streamable-http transport")
	cmd.Flags().BoolVar(&opts.metrics.Enabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.metrics.Addr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(opts serveOptions) error {
	if opts.transport != transportStdio && opts.transport != transportStreamableHTTP {
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.transport)
	}

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		// shutdownCtx is already cancelled once a signal arrived
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			slog.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	serverContext, err := openServerContext(shutdownCtx, server.WithInstrumentation(provider))
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			slog.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	health := server.NewHealthChecker(serverContext)

	if opts.transport != transportStdio && opts.metrics.Enabled && provider.Enabled() && provider.PrometheusEnabled() {
		metricsServer, err := startMetricsServer(opts.metrics.Addr, provider, health)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				slog.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}()
	}

	readOnly := !opts.yolo
	if readOnly {
		slog.Info("starting server without task removal (use --yolo to enable it)")
	} else {
		slog.Info("starting server with task removal enabled (--yolo flag is set)")
	}

	mcpSrv, err := newMCPServer(serverContext, readOnly)
	if err != nil {
		return err
	}

	switch opts.transport {
	case transportStdio:
		return runStdioServer(mcpSrv)
	default:
		fmt.Printf("Starting geotodo MCP server with %s transport...\n", opts.transport)
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, health, opts)
	}
}

func startMetricsServer(addr string, provider *instrumentation.Provider, health *server.HealthChecker) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		InstrumentationProvider: provider,
		HealthChecker:           health,
		Logger:                  logging.DefaultLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		slog.Info("metrics server started", "addr", metricsServer.Addr())
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(metricsStartupTimeout):
		return nil, errors.New("metrics server startup timed out")
	}
}

// newMCPServer creates the MCP server with every tool group registered.
func newMCPServer(sc *server.ServerContext, readOnly bool) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer("geotodo", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)
	if err := registerAllTools(mcpSrv, sc, readOnly); err != nil {
		return nil, err
	}
	return mcpSrv, nil
}

// registerAllTools registers all MCP tools and resources
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Maps Tools",
			register: func() error {
				return maps_tools.RegisterMapsTools(mcpSrv, ctx)
			},
		},
		{
			name: "Task Tools",
			register: func() error {
				return tasks_tools.RegisterTasksTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Task Resources",
			register: func() error {
				return resources.RegisterTaskResources(mcpSrv, ctx)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, health *server.HealthChecker, opts serveOptions) error {
	httpServer := server.NewHTTPServer(mcpSrv, opts.disableStreaming, sc.Logger())
	httpServer.SetHealthChecker(health)
	httpServer.SetMetrics(sc.Metrics())

	fmt.Printf("Streamable HTTP server starting on %s\n", opts.httpAddr)
	fmt.Printf("  HTTP endpoint: %s\n", server.MCPEndpointPath)
	fmt.Printf("  Health endpoints: /healthz, /readyz\n")
	if opts.metrics.Enabled {
		fmt.Printf("  Metrics endpoint: %s/metrics\n", opts.metrics.Addr)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(opts.httpAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		fmt.Println("Shutdown signal received, stopping HTTP server...")
		health.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		fmt.Println("HTTP server stopped normally")
	}

	fmt.Println("HTTP server gracefully stopped")
	return nil
}
