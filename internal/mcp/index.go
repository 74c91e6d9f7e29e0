package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quillon/mdgate/internal/spotlight"
)

type statusParams struct {
	Path string `json:"path" jsonschema:"volume or directory to report, e.g. / or /Volumes/USB"`
}

func (h *handler) statusHandler(ctx context.Context, req *mcp.CallToolRequest, params statusParams) (*mcp.CallToolResult, any, error) {
	st, err := h.client.Status(ctx, params.Path)
	if err != nil {
		return errorResult(err.Error())
	}
	return textResult(formatVolume(*st))
}

func (h *handler) volumesHandler(ctx context.Context, req *mcp.CallToolRequest, params struct{}) (*mcp.CallToolResult, any, error) {
	vols, err := h.client.Volumes(ctx)
	if err != nil {
		return errorResult(err.Error())
	}
	if len(vols) == 0 {
		return textResult("No volumes reported; indexing tools are unavailable on this platform.")
	}

	var b strings.Builder
	for _, v := range vols {
		b.WriteString(formatVolume(v))
		b.WriteByte('\n')
	}
	return textResult(b.String())
}

func formatVolume(v spotlight.VolumeStatus) string {
	if v.Detail != "" && v.State != spotlight.StateEnabled && v.State != spotlight.StateDisabled {
		return fmt.Sprintf("%s: %s (%s)", v.Volume, v.State, v.Detail)
	}
	return fmt.Sprintf("%s: %s", v.Volume, v.State)
}

type indexParams struct {
	Action string `json:"action" jsonschema:"one of enable, disable, erase, rebuild"`
	Path   string `json:"path" jsonschema:"volume to act on, e.g. /Volumes/USB"`
}

func (h *handler) indexHandler(ctx context.Context, req *mcp.CallToolRequest, params indexParams) (*mcp.CallToolResult, any, error) {
	out, err := h.client.Manage(ctx, params.Action, params.Path)
	if err != nil {
		return errorResult(err.Error())
	}
	if out == "" {
		out = fmt.Sprintf("%s applied to %s.", params.Action, params.Path)
	}
	return textResult(out)
}

type progressParams struct {
	Path string `json:"path" jsonschema:"volume to report progress for"`
}

func (h *handler) progressHandler(ctx context.Context, req *mcp.CallToolRequest, params progressParams) (*mcp.CallToolResult, any, error) {
	out, err := h.client.Progress(ctx, params.Path)
	if err != nil {
		return errorResult(err.Error())
	}
	if out == "" {
		out = "No progress reported."
	}
	return textResult(out)
}
