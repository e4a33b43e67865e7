// Package common provides shared utilities for MCP tool implementations:
// the instrumentation wrapper every tool handler goes through, argument
// accessors and result rendering.
package common
