package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"
	"unicode/utf8"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation  = "operation"
	KeyTool       = "tool"
	KeyRemoteTool = "remote_tool"
	KeyTransport  = "transport"
	KeyTaskID     = "task_id"
	KeyQuery      = "query"
	KeyQueryHash  = "query_hash"
	KeyDuration   = "duration"
	KeyStatus     = "status"
	KeyError      = "error"
)

// Status values for consistent logging.
// Note: These are intentionally duplicated from instrumentation package
// to keep this package free of OpenTelemetry imports.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// maxQueryLen bounds how much of a free-text query ends up in a log line.
const maxQueryLen = 64

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool returns a slog attribute for the served MCP tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// RemoteTool returns a slog attribute for the remote maps tool name.
func RemoteTool(tool string) slog.Attr {
	return slog.String(KeyRemoteTool, tool)
}

// Transport returns a slog attribute for the tool server transport.
func Transport(transport string) slog.Attr {
	return slog.String(KeyTransport, transport)
}

// TaskID returns a slog attribute for a task identifier.
func TaskID(id string) slog.Attr {
	return slog.String(KeyTaskID, id)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Duration returns a slog attribute for an elapsed time.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration(KeyDuration, d)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
// This allows safely passing Err(maybeNilErr) without adding empty attributes.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		// Return an empty Group that slog will omit from output
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// TruncateQuery shortens a free-text query to at most maxQueryLen runes,
// marking the cut with an ellipsis.
func TruncateQuery(q string) string {
	if utf8.RuneCountInString(q) <= maxQueryLen {
		return q
	}
	runes := []rune(q)
	return string(runes[:maxQueryLen]) + "…"
}

// Query returns a slog attribute with a truncated query. Only meant for
// debug output; use QueryHash at higher levels.
func Query(q string) slog.Attr {
	return slog.String(KeyQuery, TruncateQuery(q))
}

// AnonymizeQuery returns a hashed representation of a task title or location
// query. This allows correlation of log entries without exposing what the
// user wrote down.
func AnonymizeQuery(q string) string {
	if q == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(q))
	return "query:" + hex.EncodeToString(hash[:8])
}

// QueryHash returns a slog attribute with the anonymized query.
//
// Usage:
//
//	logger.Warn("enrichment failed", logging.QueryHash(title), logging.Err(err))
func QueryHash(q string) slog.Attr {
	return slog.String(KeyQueryHash, AnonymizeQuery(q))
}
