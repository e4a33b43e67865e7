// Package logging provides structured logging utilities for geotodo.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Query anonymization for task titles and location lookups
//   - Consistent attribute naming across the codebase
//   - Logger adapter interface for flexibility
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "tasks.create")
//	logger.Info("task created",
//	    logging.TaskID(task.ID),
//	    logging.Status("success"))
//
// Hash free text before logging it above debug level:
//
//	logger.Warn("location lookup failed",
//	    logging.QueryHash(title),
//	    logging.Err(err))
package logging
