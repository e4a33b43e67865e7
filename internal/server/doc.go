// Package server wires geotodo's components together and exposes them over
// the network.
//
// ServerContext builds the tool client, maps facade, storage backend and task
// store from a config.Config and owns their lifetime. Both the CLI commands
// and the MCP tools work against it.
//
// HTTPServer serves the MCP tools over the streamable HTTP transport at /mcp,
// together with the health endpoints of HealthChecker:
//   - /healthz: liveness
//   - /readyz: readiness, fails while shutting down
//   - /healthz/detailed: uptime and task counts
//
// MetricsServer exposes Prometheus metrics on a separate port.
package server
