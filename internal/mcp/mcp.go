// Package mcp provides the mdgate MCP server, exposing the safety-gated
// Spotlight operations as tools and publishing model instructions.
package mcp

import (
	_ "embed"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quillon/mdgate"
	"github.com/quillon/mdgate/internal/spotlight"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	client *spotlight.Client
}

// NewServer creates an MCP server with all mdgate tools registered.
func NewServer(client *spotlight.Client) *mcp.Server {
	h := &handler{client: client}

	opts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "mdgate", Version: mdgate.Version}, opts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "md_search",
		Description: `Search the Spotlight index with a metadata query.

Accepts raw mdfind query syntax (e.g. kMDItemFSName == "*.pdf") and optional
scope directories. Returns matching file paths, one per line. Scopes on
protected volumes are refused without running anything.`,
	}, h.searchHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "md_status",
		Description: "Report the Spotlight indexing state of one volume or directory.",
	}, h.statusHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "md_volumes",
		Description: "List the indexing state of the root volume and everything mounted under /Volumes. Protected volumes are shown as restricted and never touched.",
	}, h.volumesHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "md_index",
		Description: `Apply an index management action (enable, disable, erase, rebuild) to a volume.

Erase and rebuild are destructive for that volume's index; the protection
policy refuses them on protected volumes before anything runs.`,
	}, h.indexHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "md_progress",
		Description: "Report indexing progress for a volume.",
	}, h.progressHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "md_metadata",
		Description: "Read the Spotlight metadata attributes of a file. A file unknown to the index yields an empty result, not an error.",
	}, h.metadataHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "md_logs",
		Description: `Query recent system log entries with a predicate (e.g. process == "mds").`,
	}, h.logsHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "md_activity",
		Description: "Show the most recent commands run on your behalf, with their outcomes.",
	}, h.activityHandler)

	return s
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
