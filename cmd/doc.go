// Package cmd implements the command-line interface for geotodo.
//
// This package provides the following commands:
//   - places: Search places, show place details, nearby places and suggestions
//   - directions: Directions between two places
//   - tasks: Add, list, toggle and remove tasks, and route to a task's location
//   - tools: List the tools offered by the remote maps server
//   - serve: Start the MCP server to provide tools for AI assistants
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// Global flags override the GEOTODO_* environment variables.
package cmd
