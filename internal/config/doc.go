// Package config holds the runtime settings of geotodo: which tool server to
// talk to, how, and where tasks are kept.
//
// DefaultConfig reads GEOTODO_* environment variables; the CLI overrides the
// result with its flags and calls Validate before wiring anything up.
// Instrumentation settings live in the instrumentation package.
package config
