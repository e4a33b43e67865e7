package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/geotodo/internal/googlemaps"
	"github.com/teemow/geotodo/internal/tasks"
	"github.com/teemow/geotodo/internal/toolclient"
)

// JSONResult renders v as indented JSON text.
func JSONResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ErrorResult turns err into a tool error result. The message names the
// failure class so the assistant can decide whether retrying makes sense.
func ErrorResult(action string, err error) *mcp.CallToolResult {
	var (
		mapsInvalid *googlemaps.ValidationError
		taskInvalid *tasks.ValidationError
		notFound    *tasks.NotFoundError
		transport   *toolclient.TransportError
		protocol    *toolclient.ProtocolError
	)

	switch {
	case errors.As(err, &mapsInvalid), errors.As(err, &taskInvalid):
		return mcp.NewToolResultError(fmt.Sprintf("Invalid input: %v", err))
	case errors.As(err, &notFound):
		return mcp.NewToolResultError(err.Error())
	case errors.As(err, &transport):
		return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: maps server unavailable: %v", action, err))
	case errors.As(err, &protocol):
		return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: unexpected maps server response: %v", action, err))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", action, err))
	}
}
