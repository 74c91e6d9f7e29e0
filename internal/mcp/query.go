package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type searchParams struct {
	Query  string   `json:"query" jsonschema:"metadata query in mdfind syntax"`
	Scopes []string `json:"scopes,omitempty" jsonschema:"optional directories to restrict the search to"`
}

func (h *handler) searchHandler(ctx context.Context, req *mcp.CallToolRequest, params searchParams) (*mcp.CallToolResult, any, error) {
	paths, err := h.client.Search(ctx, params.Query, params.Scopes)
	if err != nil {
		return errorResult(err.Error())
	}
	if len(paths) == 0 {
		return textResult("No matches.")
	}
	return textResult(fmt.Sprintf("%d matches:\n%s", len(paths), strings.Join(paths, "\n")))
}

type metadataParams struct {
	Path string `json:"path" jsonschema:"file to read metadata attributes for"`
}

func (h *handler) metadataHandler(ctx context.Context, req *mcp.CallToolRequest, params metadataParams) (*mcp.CallToolResult, any, error) {
	attrs, err := h.client.Metadata(ctx, params.Path)
	if err != nil {
		return errorResult(err.Error())
	}
	if len(attrs) == 0 {
		return textResult(fmt.Sprintf("No metadata for %s.", params.Path))
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s = %v\n", k, attrs[k])
	}
	return textResult(b.String())
}

type logsParams struct {
	Predicate string `json:"predicate" jsonschema:"log predicate, e.g. process == \"mds\""`
}

func (h *handler) logsHandler(ctx context.Context, req *mcp.CallToolRequest, params logsParams) (*mcp.CallToolResult, any, error) {
	lines, err := h.client.LogShow(ctx, params.Predicate)
	if err != nil {
		return errorResult(err.Error())
	}
	if len(lines) == 0 {
		return textResult("No log entries matched.")
	}
	return textResult(strings.Join(lines, "\n"))
}
