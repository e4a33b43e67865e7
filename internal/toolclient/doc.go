// Package toolclient invokes named tools on a remote tool server.
//
// A tool is a named remote operation that takes a JSON argument map and
// returns an opaque JSON payload. The package knows nothing about maps; it
// only moves requests and payloads and classifies failures:
//
//   - *TransportError: the request could not be sent, the deadline expired,
//     the server answered with a non-2xx status, or it flagged the call as failed
//   - *ProtocolError: the response could not be decoded into the expected shape
//
// Two transports satisfy the Caller interface:
//
//   - Client speaks the plain REST contract: POST {base}/tools/call with
//     {"name", "arguments"} answered by {"content"}, and POST {base}/tools/list.
//   - StreamableClient speaks MCP over streamable HTTP using mcp-go.
//
// Every call is exactly one attempt. Calls are rate limited client-side, get a
// default 30 second deadline unless the caller's context already has an
// earlier one, and are traced and counted through the instrumentation package.
package toolclient
