package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type activityParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum entries to return, newest last (default 20)"`
}

func (h *handler) activityHandler(ctx context.Context, req *mcp.CallToolRequest, params activityParams) (*mcp.CallToolResult, any, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries := h.client.Activity(limit)
	if len(entries) == 0 {
		return textResult("No commands have been run yet.")
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %s  (%s)", e.Time.Format("15:04:05"), e.Command, e.Outcome)
		if e.Excerpt != "" {
			fmt.Fprintf(&b, "  %s", e.Excerpt)
		}
		b.WriteByte('\n')
	}
	return textResult(b.String())
}
