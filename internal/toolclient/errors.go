package toolclient

import (
	"fmt"
	"strings"
)

// TransportError reports that a tool call did not produce a usable HTTP
// exchange: the request could not be encoded or sent, the deadline or rate
// limiter gave up, the server returned a non-2xx status, or the server
// flagged the call itself as failed.
type TransportError struct {
	Op         string // "call", "list", "connect", ...
	Tool       string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString("toolclient ")
	b.WriteString(e.Op)
	if e.Tool != "" {
		b.WriteString(" ")
		b.WriteString(e.Tool)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": unexpected status %d", e.StatusCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError reports a response that arrived but could not be decoded
// into the expected shape.
type ProtocolError struct {
	Op   string
	Tool string
	Err  error
}

func (e *ProtocolError) Error() string {
	if e.Tool != "" {
		return fmt.Sprintf("toolclient %s %s: malformed response: %v", e.Op, e.Tool, e.Err)
	}
	return fmt.Sprintf("toolclient %s: malformed response: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
