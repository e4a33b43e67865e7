package toolclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client calls tools over the REST contract of the tool server.
type Client struct {
	baseURL string
	opts    options
}

var _ Caller = (*Client)(nil)

// NewClient creates a REST client for the tool server at baseURL.
// An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		opts:    applyOptions(opts),
	}
}

// BaseURL returns the server base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CallTool invokes the named tool with args and returns its content.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*Response, error) {
	if args == nil {
		args = map[string]any{}
	}

	var resp Response
	err := c.opts.observe(ctx, TransportHTTP, "call", name, func(ctx context.Context) error {
		return c.post(ctx, "call", name, "/tools/call", Request{Name: name, Arguments: args}, &resp)
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTools returns the remote tool catalog.
func (c *Client) ListTools(ctx context.Context) (*ToolList, error) {
	var list ToolList
	err := c.opts.observe(ctx, TransportHTTP, "list", "tools/list", func(ctx context.Context) error {
		return c.post(ctx, "list", "", "/tools/list", struct{}{}, &list)
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Close is a no-op; the REST client holds no session.
func (c *Client) Close() error {
	return nil
}

func (c *Client) post(ctx context.Context, op, tool, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &TransportError{Op: op, Tool: tool, Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Op: op, Tool: tool, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.userAgent)

	resp, err := c.opts.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Tool: tool, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Op: op, Tool: tool, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Op: op, Tool: tool, StatusCode: resp.StatusCode, Err: bodyError(data)}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &ProtocolError{Op: op, Tool: tool, Err: errors.New("empty response body")}
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return &ProtocolError{Op: op, Tool: tool, Err: err}
	}
	return nil
}

// bodyError turns the start of an error response body into an error, or nil
// when the body is empty.
func bodyError(data []byte) error {
	const maxLen = 200
	msg := strings.TrimSpace(string(data))
	if msg == "" {
		return nil
	}
	if len(msg) > maxLen {
		msg = msg[:maxLen] + "..."
	}
	return errors.New(msg)
}
