// Package resources exposes the task list as read-only MCP resources, so that
// clients can pull the current list into context without a tool call.
package resources
