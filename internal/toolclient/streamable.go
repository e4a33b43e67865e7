package toolclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

// mcpSession abstracts the initialized mcp-go client for testability.
type mcpSession interface {
	ListTools(ctx context.Context, request mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// StreamableClient calls tools over MCP streamable HTTP. The session is
// opened lazily on the first call and reused until Close.
type StreamableClient struct {
	url     string
	version string
	opts    options

	mu      sync.Mutex
	session mcpSession
	dial    func(ctx context.Context) (mcpSession, error)
}

var _ Caller = (*StreamableClient)(nil)

// NewStreamableClient creates an MCP streamable-HTTP client for the server at
// url. The version is reported as the client implementation version during
// the MCP handshake.
func NewStreamableClient(url, version string, opts ...Option) *StreamableClient {
	if url == "" {
		url = DefaultBaseURL
	}
	c := &StreamableClient{
		url:     url,
		version: version,
		opts:    applyOptions(opts),
	}
	c.dial = c.connect
	return c
}

// CallTool invokes the named tool and converts the MCP result to a Response.
func (c *StreamableClient) CallTool(ctx context.Context, name string, args map[string]any) (*Response, error) {
	if args == nil {
		args = map[string]any{}
	}

	var resp *Response
	err := c.opts.observe(ctx, TransportStreamable, "call", name, func(ctx context.Context) error {
		session, err := c.getSession(ctx)
		if err != nil {
			return err
		}

		req := mcp.CallToolRequest{}
		req.Params.Name = name
		req.Params.Arguments = args

		result, err := session.CallTool(ctx, req)
		if err != nil {
			return &TransportError{Op: "call", Tool: name, Err: err}
		}
		if result == nil {
			return &ProtocolError{Op: "call", Tool: name, Err: errors.New("nil result")}
		}
		if result.IsError {
			return &TransportError{Op: "call", Tool: name, Err: errors.New(firstText(result))}
		}

		content, err := resultContent(result)
		if err != nil {
			return &ProtocolError{Op: "call", Tool: name, Err: err}
		}
		resp = &Response{Content: content}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListTools returns the server's tool catalog.
func (c *StreamableClient) ListTools(ctx context.Context) (*ToolList, error) {
	var list *ToolList
	err := c.opts.observe(ctx, TransportStreamable, "list", "tools/list", func(ctx context.Context) error {
		session, err := c.getSession(ctx)
		if err != nil {
			return err
		}

		result, err := session.ListTools(ctx, mcp.ListToolsRequest{})
		if err != nil {
			return &TransportError{Op: "list", Err: err}
		}
		if result == nil {
			return &ProtocolError{Op: "list", Err: errors.New("nil result")}
		}
		list = &ToolList{Tools: result.Tools}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Close ends the MCP session, if one was opened.
func (c *StreamableClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	return err
}

func (c *StreamableClient) getSession(ctx context.Context) (mcpSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return c.session, nil
	}
	session, err := c.dial(ctx)
	if err != nil {
		var te *TransportError
		if errors.As(err, &te) {
			return nil, err
		}
		return nil, &TransportError{Op: "connect", Err: err}
	}
	c.session = session
	return session, nil
}

func (c *StreamableClient) connect(ctx context.Context) (mcpSession, error) {
	t, err := transport.NewStreamableHTTP(c.url,
		transport.WithHTTPBasicClient(c.opts.httpClient),
		transport.WithHTTPHeaders(map[string]string{"User-Agent": c.opts.userAgent}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create streamable transport: %w", err)
	}

	client := mcpclient.NewClient(t)
	if err := client.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start client: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    DefaultUserAgent,
		Version: c.version,
	}
	if _, err := client.Initialize(ctx, initReq); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}

	c.opts.logger.Debug("mcp session opened", "url", c.url)
	return client, nil
}

// resultContent picks the payload of a tool result: structured content when
// present, otherwise the first text item, kept as JSON when it parses and
// encoded as a JSON string when it does not.
func resultContent(result *mcp.CallToolResult) (json.RawMessage, error) {
	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		if err != nil {
			return nil, fmt.Errorf("failed to encode structured content: %w", err)
		}
		return data, nil
	}

	for _, c := range result.Content {
		text, ok := textOf(c)
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(text)
		if trimmed != "" && json.Valid([]byte(trimmed)) {
			return json.RawMessage(trimmed), nil
		}
		data, err := json.Marshal(text)
		if err != nil {
			return nil, err
		}
		return data, nil
	}
	return nil, nil
}

func textOf(c mcp.Content) (string, bool) {
	switch v := c.(type) {
	case mcp.TextContent:
		return v.Text, true
	case *mcp.TextContent:
		return v.Text, true
	}
	return "", false
}

func firstText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if text, ok := textOf(c); ok && text != "" {
			return text
		}
	}
	return "tool reported an error"
}
