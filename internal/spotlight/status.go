package spotlight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// State describes the indexing state of one volume.
type State string

const (
	StateEnabled    State = "enabled"
	StateDisabled   State = "disabled"
	StateUnknown    State = "unknown"
	StateRestricted State = "restricted"
	StateError      State = "error"
)

// VolumeStatus is the indexing status of a single volume.
type VolumeStatus struct {
	Volume  string `json:"volume"`
	Indexed bool   `json:"indexed"`
	State   State  `json:"state"`
	Detail  string `json:"detail,omitempty"`
}

// Status reports the indexing state of the volume at path.
func (c *Client) Status(ctx context.Context, path string) (*VolumeStatus, error) {
	if err := c.guardCheck("status", path); err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return nil, &Error{Op: "status", Kind: KindInvalidArgument, Err: errEmptyPath}
	}

	res, err := c.run(ctx, "status", c.mdutilInvocation("-s", path))
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, exitError("status", res)
	}
	st := parseStatus(path, string(res.Stdout))
	return &st, nil
}

// Volumes reports the indexing state of the root volume and everything
// mounted under /Volumes. Protected volumes are listed as restricted
// without touching them; per-volume failures are reported inline so one
// bad mount does not hide the rest. Returns nil on unsupported
// platforms.
func (c *Client) Volumes(ctx context.Context) ([]VolumeStatus, error) {
	if !c.gate.Supported() {
		return nil, nil
	}

	paths := []string{"/"}
	if entries, err := os.ReadDir("/Volumes"); err == nil {
		for _, e := range entries {
			paths = append(paths, filepath.Join("/Volumes", e.Name()))
		}
	}

	var out []VolumeStatus
	for _, path := range paths {
		if c.guard.Check(path) != nil {
			out = append(out, VolumeStatus{
				Volume: path,
				State:  StateRestricted,
				Detail: "protected volume, not queried",
			})
			continue
		}
		res, err := c.run(ctx, "volumes", c.mdutilInvocation("-s", path))
		if err != nil || res.ExitCode != 0 {
			detail := ""
			if err != nil {
				detail = err.Error()
			} else {
				detail = strings.TrimSpace(string(res.Stderr))
			}
			out = append(out, VolumeStatus{Volume: path, State: StateError, Detail: detail})
			continue
		}
		out = append(out, parseStatus(path, string(res.Stdout)))
	}
	return out, nil
}

// Progress reports indexing progress for the volume at path, as
// printed by the status tool in progress mode.
func (c *Client) Progress(ctx context.Context, path string) (string, error) {
	if err := c.guardCheck("progress", path); err != nil {
		return "", err
	}
	if strings.TrimSpace(path) == "" {
		return "", &Error{Op: "progress", Kind: KindInvalidArgument, Err: errEmptyPath}
	}

	res, err := c.run(ctx, "progress", c.mdutilInvocation("-p", path))
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", exitError("progress", res)
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

// parseStatus interprets mdutil -s output for one volume. The tool
// prints the path, a colon, and a short sentence, either on one line
// or with the sentence indented on the next. Output that names neither
// an enabled nor a disabled index maps to the unknown state, never to
// an error.
func parseStatus(path, out string) VolumeStatus {
	detail := strings.TrimSpace(out)
	if rest, found := strings.CutPrefix(detail, path+":"); found {
		detail = strings.TrimSpace(rest)
	}

	st := VolumeStatus{Volume: path, Detail: detail}
	lower := strings.ToLower(detail)
	switch {
	case strings.Contains(lower, "indexing enabled"):
		st.Indexed = true
		st.State = StateEnabled
	case strings.Contains(lower, "indexing disabled"):
		st.State = StateDisabled
	default:
		st.State = StateUnknown
	}
	return st
}
