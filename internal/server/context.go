package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/teemow/geotodo/internal/config"
	"github.com/teemow/geotodo/internal/enrich"
	"github.com/teemow/geotodo/internal/googlemaps"
	"github.com/teemow/geotodo/internal/instrumentation"
	"github.com/teemow/geotodo/internal/logging"
	"github.com/teemow/geotodo/internal/storage"
	"github.com/teemow/geotodo/internal/tasks"
	"github.com/teemow/geotodo/internal/toolclient"
)

// ServerContext owns the long-lived components shared by the CLI commands
// and the MCP tools: the tool server connection, the maps facade and the task
// store.
type ServerContext struct {
	cfg      config.Config
	ctx      context.Context
	cancel   context.CancelFunc
	conn     toolclient.Conn
	maps     *googlemaps.Client
	backend  storage.Backend
	store    *tasks.Store
	metrics  *instrumentation.Metrics
	provider *instrumentation.Provider
	logger   logging.Logger
	mu       sync.RWMutex
	shutdown bool
}

// Option configures a ServerContext.
type Option func(*contextOptions)

type contextOptions struct {
	logger   logging.Logger
	provider *instrumentation.Provider
	conn     toolclient.Conn
	backend  storage.Backend
	version  string
}

// WithLogger sets the logger handed to every component.
func WithLogger(l logging.Logger) Option {
	return func(o *contextOptions) {
		o.logger = l
	}
}

// WithInstrumentation wires metrics and tracing into every component.
func WithInstrumentation(p *instrumentation.Provider) Option {
	return func(o *contextOptions) {
		o.provider = p
	}
}

// WithConn uses an existing tool server connection instead of dialing one
// from the configuration.
func WithConn(c toolclient.Conn) Option {
	return func(o *contextOptions) {
		o.conn = c
	}
}

// WithBackend uses an existing storage backend instead of opening one from
// the configuration.
func WithBackend(b storage.Backend) Option {
	return func(o *contextOptions) {
		o.backend = b
	}
}

// WithVersion sets the client version announced to the tool server.
func WithVersion(v string) Option {
	return func(o *contextOptions) {
		o.version = v
	}
}

// NewServerContext wires up the tool client, maps facade, storage backend and
// task store described by cfg.
func NewServerContext(ctx context.Context, cfg config.Config, opts ...Option) (*ServerContext, error) {
	o := contextOptions{version: "dev"}
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.OrDefault(o.logger)

	var metrics *instrumentation.Metrics
	if o.provider != nil && o.provider.Enabled() {
		metrics = o.provider.Metrics()
	}

	conn := o.conn
	if conn == nil {
		var err error
		conn, err = toolclient.New(cfg.Transport, cfg.Endpoint, o.version,
			toolclient.WithTimeout(cfg.Timeout),
			toolclient.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
			toolclient.WithLogger(logger),
			toolclient.WithMetrics(metrics),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create tool client: %w", err)
		}
	}

	backend := o.backend
	if backend == nil {
		var err error
		backend, err = storage.Open(cfg.Store, cfg.DataDir)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
		}
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	maps := googlemaps.NewClient(conn,
		googlemaps.WithCache(cfg.CacheSize, cfg.CacheTTL),
		googlemaps.WithLogger(logger),
	)
	workflow := enrich.NewWorkflow(maps,
		enrich.WithLogger(logger),
		enrich.WithMetrics(metrics),
	)
	store := tasks.New(shutdownCtx, backend,
		tasks.WithKey(cfg.StorageKey),
		tasks.WithLocator(workflow),
		tasks.WithRouter(maps),
		tasks.WithLogger(logger),
		tasks.WithMetrics(metrics),
	)

	return &ServerContext{
		cfg:      cfg,
		ctx:      shutdownCtx,
		cancel:   cancel,
		conn:     conn,
		maps:     maps,
		backend:  backend,
		store:    store,
		metrics:  metrics,
		provider: o.provider,
		logger:   logger,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the configuration the context was built from
func (sc *ServerContext) Config() config.Config {
	return sc.cfg
}

// CheckStorage reads the task slot to verify the backend still answers. An
// absent slot counts as healthy.
func (sc *ServerContext) CheckStorage(ctx context.Context) error {
	_, err := sc.backend.Get(ctx, sc.cfg.StorageKey)
	if err == nil || errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

// Maps returns the maps facade
func (sc *ServerContext) Maps() *googlemaps.Client {
	return sc.maps
}

// Tasks returns the task store
func (sc *ServerContext) Tasks() *tasks.Store {
	return sc.store
}

// Caller returns the raw tool server connection, for diagnostics.
func (sc *ServerContext) Caller() toolclient.Caller {
	return sc.conn
}

// Metrics returns the metrics recorder. It is nil when instrumentation is
// disabled; all Metrics methods accept a nil receiver.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// InstrumentationProvider returns the provider, or nil.
func (sc *ServerContext) InstrumentationProvider() *instrumentation.Provider {
	return sc.provider
}

// Logger returns the shared logger
func (sc *ServerContext) Logger() logging.Logger {
	return sc.logger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the context and closes the tool connection and the
// storage backend.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return errors.Join(sc.conn.Close(), sc.backend.Close())
}
