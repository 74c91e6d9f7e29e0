package spotlight

import (
	"context"
	"strings"
	"time"

	"github.com/quillon/mdgate/internal/runner"
)

// logShowTimeout bounds buffered log queries, which scan on-disk
// archives and can run long for wide predicates.
const logShowTimeout = 2 * time.Minute

// LogShow returns recent system log lines matching predicate, limited
// to the configured window.
func (c *Client) LogShow(ctx context.Context, predicate string) ([]string, error) {
	if strings.TrimSpace(predicate) == "" {
		return nil, &Error{Op: "log-show", Kind: KindInvalidArgument, Err: errEmptyPredicate}
	}

	inv := runner.Invocation{
		Program: c.cfg.LogTool(),
		Args:    []string{"show", "--predicate", predicate, "--last", c.cfg.LogWindow()},
		Timeout: logShowTimeout,
	}
	res, err := c.run(ctx, "log-show", inv)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, exitError("log-show", res)
	}
	return splitLines(res.Stdout), nil
}

// LogStream follows the live system log for predicate, delivering each
// line to fn until the returned handle is cancelled.
func (c *Client) LogStream(ctx context.Context, predicate string, fn LineFunc) (*Handle, error) {
	if strings.TrimSpace(predicate) == "" {
		return nil, &Error{Op: "log-stream", Kind: KindInvalidArgument, Err: errEmptyPredicate}
	}

	inv := runner.Invocation{
		Program: c.cfg.LogTool(),
		Args:    []string{"stream", "--predicate", predicate},
	}
	s, err := c.exec.Stream(ctx, inv)
	if err != nil {
		return nil, &Error{Op: "log-stream", Kind: KindSpawn, Err: err}
	}
	return newHandle("log-stream", s, fn), nil
}
