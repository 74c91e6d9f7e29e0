package spotlight

import (
	"context"
	"strings"

	"howett.net/plist"

	"github.com/quillon/mdgate/internal/runner"
)

// notFoundMarkers are the diagnostics mdls prints for a path that has
// no metadata entry. Absence is not a failure: callers get an empty
// attribute map and decide for themselves whether that matters.
var notFoundMarkers = []string{
	"No such file or directory",
	"Can't find",
}

// Metadata returns the metadata attributes of the file at path. A path
// unknown to the metadata store yields an empty map and no error.
func (c *Client) Metadata(ctx context.Context, path string) (map[string]any, error) {
	if err := c.guardCheck("metadata", path); err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return nil, &Error{Op: "metadata", Kind: KindInvalidArgument, Err: errEmptyPath}
	}

	inv := c.mdlsInvocation(path)
	res, err := c.run(ctx, "metadata", inv)
	if err != nil {
		return nil, err
	}

	combined := string(res.Stdout) + string(res.Stderr)
	for _, marker := range notFoundMarkers {
		if strings.Contains(combined, marker) {
			return map[string]any{}, nil
		}
	}
	if res.ExitCode != 0 {
		return nil, exitError("metadata", res)
	}

	attrs := map[string]any{}
	if len(strings.TrimSpace(string(res.Stdout))) == 0 {
		return attrs, nil
	}
	if _, err := plist.Unmarshal(res.Stdout, &attrs); err != nil {
		return nil, &Error{
			Op:     "metadata",
			Kind:   KindParse,
			Stdout: string(res.Stdout),
			Err:    err,
		}
	}
	return attrs, nil
}

// mdlsInvocation asks mdls for a plist on stdout, which round-trips
// typed values where the default line format would lose them.
func (c *Client) mdlsInvocation(path string) runner.Invocation {
	return runner.Invocation{Program: c.cfg.Mdls(), Args: []string{"-plist", "-", path}}
}
