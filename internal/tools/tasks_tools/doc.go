// Package tasks_tools provides MCP tools for the location-aware task list.
//
// # Available Tools
//
//   - tasks_list: List tasks, optionally only pending or only completed ones
//   - tasks_create: Create a task, resolving an optional free-text location
//   - tasks_toggle: Flip a task between pending and completed
//   - tasks_remove: Delete a task (write mode only)
//   - tasks_directions: Directions from an origin to a task's location
//
// Location lookup failures never fail tasks_create; the task is created
// without a location instead.
package tasks_tools
