package spotlight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quillon/mdgate/internal/runner"
)

// manageTimeout bounds index management commands, which can take far
// longer than queries on large volumes.
const manageTimeout = 5 * time.Minute

// Action is an index management operation. The set is closed; anything
// else is rejected before execution.
type Action string

const (
	ActionEnable  Action = "enable"
	ActionDisable Action = "disable"
	ActionErase   Action = "erase"
	ActionRebuild Action = "rebuild"
)

// ParseAction validates a textual action name.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionEnable, ActionDisable, ActionErase, ActionRebuild:
		return a, nil
	default:
		return "", fmt.Errorf("unknown index action %q", s)
	}
}

// args returns the mdutil arguments for the action on volume.
func (a Action) args(volume string) []string {
	switch a {
	case ActionEnable:
		return []string{"-i", "on", volume}
	case ActionDisable:
		return []string{"-i", "off", volume}
	case ActionErase:
		return []string{"-E", volume}
	case ActionRebuild:
		return []string{"-L", volume}
	default:
		return nil
	}
}

// Manage applies an index management action to the volume at path and
// returns the tool's output. The protection policy is consulted before
// the action name is even parsed, so a protected volume is refused the
// same way for valid and invalid actions alike.
func (c *Client) Manage(ctx context.Context, action, path string) (string, error) {
	if err := c.guardCheck("manage", path); err != nil {
		return "", err
	}
	a, err := ParseAction(action)
	if err != nil {
		return "", &Error{Op: "manage", Kind: KindInvalidArgument, Err: err}
	}
	if strings.TrimSpace(path) == "" {
		return "", &Error{Op: "manage", Kind: KindInvalidArgument, Err: errEmptyPath}
	}
	if !c.gate.Supported() {
		c.log.Warn().Str("action", string(a)).Msg("platform does not support index management, attempting anyway")
	}

	inv := runner.Invocation{
		Program: c.cfg.Mdutil(),
		Args:    a.args(path),
		Timeout: manageTimeout,
	}
	res, err := c.run(ctx, "manage", inv)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", exitError("manage", res)
	}
	c.log.Info().Str("action", string(a)).Str("volume", path).Msg("index management applied")
	return strings.TrimSpace(string(res.Stdout)), nil
}

func (c *Client) mdutilInvocation(flag, path string) runner.Invocation {
	return runner.Invocation{Program: c.cfg.Mdutil(), Args: []string{flag, path}}
}
