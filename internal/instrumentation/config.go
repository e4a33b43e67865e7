package instrumentation

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Exporter types.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// DefaultMetricInterval is the export interval of the push-based exporters.
const DefaultMetricInterval = 10 * time.Second

// Config controls which telemetry geotodo produces and where it goes.
//
// Every field has a GEOTODO_* environment variable; the standard OTEL_*
// variables are honored where one exists and the GEOTODO_* one is unset.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// ServiceInstanceID defaults to the hostname.
	ServiceInstanceID string

	// ResourceAttributes are added to every exported metric and span.
	ResourceAttributes map[string]string

	// Enabled switches all instrumentation off when false.
	Enabled bool

	// MetricsExporter is one of prometheus, otlp or stdout.
	MetricsExporter string

	// MetricInterval applies to the otlp and stdout metric exporters.
	MetricInterval time.Duration

	// TracingExporter is one of otlp, stdout or none.
	TracingExporter string

	// OTLPEndpoint is host:port without a scheme, e.g. "localhost:4318".
	OTLPEndpoint string

	// OTLPInsecure sends OTLP over plain HTTP. Local development only.
	OTLPInsecure bool

	// TraceSamplingRate is the parent-based ratio in [0, 1].
	TraceSamplingRate float64
}

// DefaultConfig reads the configuration from the environment.
func DefaultConfig() Config {
	return Config{
		ServiceName:        env("geotodo", "GEOTODO_SERVICE_NAME", "OTEL_SERVICE_NAME"),
		ServiceVersion:     "unknown",
		ServiceInstanceID:  env("", "GEOTODO_SERVICE_INSTANCE_ID", "OTEL_SERVICE_INSTANCE_ID"),
		ResourceAttributes: parseAttributes(env("", "GEOTODO_RESOURCE_ATTRIBUTES", "OTEL_RESOURCE_ATTRIBUTES")),
		Enabled:            envBool(true, "GEOTODO_INSTRUMENTATION_ENABLED", "INSTRUMENTATION_ENABLED"),
		MetricsExporter:    env(ExporterPrometheus, "GEOTODO_METRICS_EXPORTER", "METRICS_EXPORTER"),
		MetricInterval:     envDuration(DefaultMetricInterval, "GEOTODO_METRICS_INTERVAL"),
		TracingExporter:    env(ExporterNone, "GEOTODO_TRACING_EXPORTER", "TRACING_EXPORTER"),
		OTLPEndpoint:       env("", "GEOTODO_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure:       envBool(false, "GEOTODO_OTLP_INSECURE", "OTEL_EXPORTER_OTLP_INSECURE"),
		TraceSamplingRate:  envFloat(0.1, "GEOTODO_TRACE_SAMPLING_RATE", "OTEL_TRACES_SAMPLER_ARG"),
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		errs = append(errs, fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %g", c.TraceSamplingRate))
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterStdout:
	case ExporterOTLP:
		if c.OTLPEndpoint == "" {
			errs = append(errs, errors.New("OTLP endpoint is required when using OTLP metrics exporter"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter))
	}

	switch c.TracingExporter {
	case "", ExporterNone, ExporterStdout:
	case ExporterOTLP:
		if c.OTLPEndpoint == "" {
			errs = append(errs, errors.New("OTLP endpoint is required when using OTLP tracing exporter"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter))
	}

	if c.MetricInterval < 0 {
		errs = append(errs, fmt.Errorf("metric interval must not be negative, got %s", c.MetricInterval))
	}

	return errors.Join(errs...)
}

// parseAttributes parses "key1=value1,key2=value2". Malformed pairs are
// skipped.
func parseAttributes(s string) map[string]string {
	attrs := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		attrs[k] = strings.TrimSpace(v)
	}
	return attrs
}

// env returns the first non-empty variable among keys, or def.
func env(def string, keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func envBool(def bool, keys ...string) bool {
	v, err := strconv.ParseBool(env("", keys...))
	if err != nil {
		return def
	}
	return v
}

func envFloat(def float64, keys ...string) float64 {
	v, err := strconv.ParseFloat(env("", keys...), 64)
	if err != nil {
		return def
	}
	return v
}

func envDuration(def time.Duration, keys ...string) time.Duration {
	v, err := time.ParseDuration(env("", keys...))
	if err != nil {
		return def
	}
	return v
}
