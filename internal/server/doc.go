// Package server implements the MCP (Model Context Protocol) server for
// rotated region decoding.
//
// This package provides a JSON-RPC 2.0 server that exposes region loaders
// through the MCP protocol, so MCP-compatible clients can open large
// images once and pull logical regions out of them on demand without
// paying for full decodes.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - region_open: Open an image file with a rotation, returning a loader id
//   - region_dimensions: Logical dimensions of an open loader
//   - region_decode: Decode a logical rectangle as base64 PNG
//   - region_stats: Average and dominant colors of a logical rectangle
//   - region_close: Destroy a loader and release its resources
//
// # Loader Lifecycle
//
// region_open returns an opaque id naming the loader. All other tools take
// that id. Loaders live until region_close or server shutdown, whichever
// comes first; the server destroys any still-open loaders when its input
// stream ends.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
