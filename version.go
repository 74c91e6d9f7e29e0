// Package mdgate holds module-wide metadata shared by the CLI and the
// MCP server.
package mdgate

// Version is the current mdgate release.
const Version = "0.3.1"
