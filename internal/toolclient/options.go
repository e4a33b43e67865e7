package toolclient

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/teemow/geotodo/internal/instrumentation"
	"github.com/teemow/geotodo/internal/logging"
)

const (
	// DefaultTimeout bounds a single tool call unless the caller's context
	// already carries an earlier deadline.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit and DefaultRateBurst keep us polite towards the
	// public endpoint.
	DefaultRateLimit = 5.0
	DefaultRateBurst = 5

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "geotodo"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 10 << 20
)

// Option configures a Client or StreamableClient.
type Option func(*options)

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     logging.Logger
	metrics    *instrumentation.Metrics
	userAgent  string
}

func defaultOptions() options {
	return options{
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateBurst),
		logger:     logging.DefaultLogger(),
		userAgent:  DefaultUserAgent,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithHTTPClient sets the HTTP client used for REST calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithTimeout sets the per-call deadline. Zero or negative disables it, leaving
// only the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithRateLimit sets the client-side request rate. A non-positive rate
// disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *options) {
		if perSecond <= 0 {
			o.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger sets the logger for per-call debug lines.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		o.logger = logging.OrDefault(l)
	}
}

// WithMetrics records each call in the tool call metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// observe runs one tool call attempt: it waits for the rate limiter, applies
// the default deadline, and wraps fn in a client span, metrics and a debug
// log line.
func (o *options) observe(ctx context.Context, transport, op, tool string, fn func(ctx context.Context) error) error {
	ctx, span := instrumentation.StartToolCallSpan(ctx, tool, transport)
	defer span.End()

	start := time.Now()
	err := o.attempt(ctx, op, tool, fn)
	duration := time.Since(start)

	instrumentation.EndSpan(span, err)
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	o.metrics.RecordToolCall(ctx, tool, status, duration)

	o.logger.Debug("tool call",
		logging.RemoteTool(tool),
		logging.Transport(transport),
		logging.Status(status),
		logging.Duration(duration),
		logging.Err(err))

	return err
}

func (o *options) attempt(ctx context.Context, op, tool string, fn func(ctx context.Context) error) error {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return &TransportError{Op: op, Tool: tool, Err: err}
		}
	}

	return fn(ctx)
}
