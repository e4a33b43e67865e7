package toolclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Transport names accepted by New.
const (
	TransportHTTP       = "http"
	TransportStreamable = "streamable"
)

// DefaultBaseURL is the public, unauthenticated maps tool server.
const DefaultBaseURL = "https://mcp.open-mcp.org/api/server/google-maps@latest/mcp"

// Caller invokes tools on a remote tool server.
type Caller interface {
	CallTool(ctx context.Context, name string, args map[string]any) (*Response, error)
	ListTools(ctx context.Context) (*ToolList, error)
}

// Conn is a Caller that holds resources until closed.
type Conn interface {
	Caller
	Close() error
}

// New builds a Conn for the named transport (TransportHTTP or
// TransportStreamable). An empty name selects TransportHTTP.
func New(transportName, baseURL, version string, opts ...Option) (Conn, error) {
	switch transportName {
	case "", TransportHTTP:
		return NewClient(baseURL, opts...), nil
	case TransportStreamable:
		return NewStreamableClient(baseURL, version, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported transport %q, must be one of: %s, %s", transportName, TransportHTTP, TransportStreamable)
	}
}

// Request is the body of a tools/call request.
type Request struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Response is a successful tool call. Content is handed to the caller
// undecoded; a response without content leaves it nil.
type Response struct {
	Content json.RawMessage `json:"content"`
}

// Empty reports whether the response carries no content or a JSON null.
func (r *Response) Empty() bool {
	if r == nil {
		return true
	}
	c := bytes.TrimSpace(r.Content)
	return len(c) == 0 || bytes.Equal(c, []byte("null"))
}

// ToolList is the remote tool catalog.
type ToolList struct {
	Tools []mcp.Tool `json:"tools"`
}

// Names returns the tool names in catalog order.
func (l *ToolList) Names() []string {
	if l == nil {
		return nil
	}
	names := make([]string, 0, len(l.Tools))
	for _, t := range l.Tools {
		names = append(names, t.Name)
	}
	return names
}
