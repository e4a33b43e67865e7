package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/geotodo/internal/config"
	"github.com/teemow/geotodo/internal/logging"
	"github.com/teemow/geotodo/internal/server"
)

// rootCmd represents the base command for the geotodo application
var rootCmd = &cobra.Command{
	Use:   "geotodo",
	Short: "A location-aware task list backed by a remote maps tool server",
	Long: `geotodo keeps a local task list whose tasks can carry a location. Free-text
locations are resolved into an address and coordinates through a remote maps
tool server, which also answers place searches and directions.

It can run as:
  - A command-line tool (places, directions, tasks)
  - An MCP (Model Context Protocol) server for AI assistants (serve)`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(flags.debug)
	},
}

// version will be set by main
var version = "dev"

// globalFlags are shared by every subcommand. Unset flags fall back to the
// GEOTODO_* environment variables read by config.DefaultConfig.
type globalFlags struct {
	endpoint  string
	transport string
	store     string
	dataDir   string
	timeout   time.Duration
	debug     bool
	output    string
}

var flags globalFlags

const (
	outputText = "text"
	outputJSON = "json"
)

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "geotodo version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.endpoint, "endpoint", "", "Base URL of the maps tool server (env: GEOTODO_ENDPOINT)")
	pf.StringVar(&flags.transport, "maps-transport", "", "Tool server transport: http or streamable (env: GEOTODO_TRANSPORT)")
	pf.StringVar(&flags.store, "store", "", "Task storage backend: file, sqlite or memory (env: GEOTODO_STORE)")
	pf.StringVar(&flags.dataDir, "data-dir", "", "Directory for the file and sqlite backends (env: GEOTODO_DATA_DIR)")
	pf.DurationVar(&flags.timeout, "timeout", 0, "Timeout for a single tool call (env: GEOTODO_TIMEOUT, default 30s)")
	pf.BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	pf.StringVarP(&flags.output, "output", "o", outputText, "Output format: text or json")

	rootCmd.AddCommand(newPlacesCmd())
	rootCmd.AddCommand(newDirectionsCmd())
	rootCmd.AddCommand(newTasksCmd())
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// setupLogging installs a text handler on stderr as the default logger.
func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig merges flags over the environment defaults and validates the
// result.
func loadConfig(f globalFlags) (config.Config, error) {
	cfg := config.DefaultConfig()
	if f.endpoint != "" {
		cfg.Endpoint = f.endpoint
	}
	if f.transport != "" {
		cfg.Transport = f.transport
	}
	if f.store != "" {
		cfg.Store = f.store
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}
	if f.timeout > 0 {
		cfg.Timeout = f.timeout
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	if f.output != outputText && f.output != outputJSON {
		return cfg, fmt.Errorf("invalid output format %q, must be one of: text, json", f.output)
	}
	return cfg, nil
}

// openServerContext builds the components for a one-shot CLI command. The
// caller shuts it down.
func openServerContext(ctx context.Context, opts ...server.Option) (*server.ServerContext, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	base := []server.Option{
		server.WithLogger(logging.DefaultLogger()),
		server.WithVersion(version),
	}
	return server.NewServerContext(ctx, cfg, append(base, opts...)...)
}

// withServerContext runs fn against a fresh ServerContext and shuts it down
// afterwards.
func withServerContext(cmd *cobra.Command, fn func(ctx context.Context, sc *server.ServerContext) error) error {
	sc, err := openServerContext(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if err := sc.Shutdown(); err != nil {
			slog.Warn("failed to shut down cleanly", logging.Err(err))
		}
	}()
	return fn(sc.Context(), sc)
}
