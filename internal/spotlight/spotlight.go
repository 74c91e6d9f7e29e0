// Package spotlight exposes typed operations over the macOS metadata
// tools (mdfind, mdutil, mdls, log). Every operation follows the same
// skeleton: validate arguments, apply the protection policy to every
// path-like argument, build an invocation, execute it, and translate
// the outcome into a typed value or a structured *Error.
package spotlight

import (
	"context"
	"errors"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quillon/mdgate/internal/activity"
	"github.com/quillon/mdgate/internal/config"
	"github.com/quillon/mdgate/internal/guard"
	"github.com/quillon/mdgate/internal/runner"
)

// Execer executes invocations. Implemented by runner.Runner; replaced
// in tests to count or fake spawns.
type Execer interface {
	Run(ctx context.Context, inv runner.Invocation) (*runner.Result, error)
	Stream(ctx context.Context, inv runner.Invocation) (*runner.Stream, error)
}

// Gate reports whether the platform supports the full tool set.
// Destructive operations consult it once and proceed with degraded
// guarantees when unsupported; they never hard-fail on the gate alone.
type Gate interface {
	Supported() bool
}

type osGate struct{}

func (osGate) Supported() bool { return runtime.GOOS == "darwin" }

// OSGate returns the default gate, keyed on the running OS.
func OSGate() Gate { return osGate{} }

// Client is the command facade. All fields are set at construction and
// never mutated; a Client is safe for concurrent use.
type Client struct {
	cfg      *config.Config
	exec     Execer
	guard    *guard.Policy
	gate     Gate
	activity *activity.Log
	log      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithGate overrides the platform gate.
func WithGate(g Gate) Option {
	return func(c *Client) { c.gate = g }
}

// New creates a Client over the given executor and policy.
func New(cfg *config.Config, exec Execer, pol *guard.Policy, act *activity.Log, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		cfg:      cfg,
		exec:     exec,
		guard:    pol,
		gate:     OSGate(),
		activity: act,
		log:      log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Activity returns up to n recent command invocations, newest last.
func (c *Client) Activity(n int) []activity.Entry {
	if c.activity == nil {
		return nil
	}
	return c.activity.Recent(n)
}

// guardCheck applies the protection policy to one path-like argument.
// It runs before any other validation or I/O for the operation.
func (c *Client) guardCheck(op, path string) error {
	if err := c.guard.Check(path); err != nil {
		v := err.(*guard.Violation)
		c.log.Warn().Str("op", op).Str("path", path).Msg("blocked by protection policy")
		return &Error{Op: op, Kind: KindSafety, Resource: v.Resource, Err: err}
	}
	return nil
}

// run executes inv and translates runner failures into facade errors.
// A non-zero exit is not an error at this layer; operations decide
// whether a given exit code is fatal.
func (c *Client) run(ctx context.Context, op string, inv runner.Invocation) (*runner.Result, error) {
	res, err := c.exec.Run(ctx, inv)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, &Error{Op: op, Kind: KindCancelled, Err: err}
		}
		var toErr *runner.TimeoutError
		if errors.As(err, &toErr) {
			return nil, &Error{
				Op:     op,
				Kind:   KindTimeout,
				Stdout: string(toErr.Stdout),
				Stderr: string(toErr.Stderr),
				Err:    err,
			}
		}
		return nil, &Error{Op: op, Kind: KindSpawn, Err: err}
	}
	return res, nil
}

// exitError builds the KindExit failure for an invocation that ran to
// completion with a non-zero code.
func exitError(op string, res *runner.Result) *Error {
	return &Error{
		Op:       op,
		Kind:     KindExit,
		ExitCode: res.ExitCode,
		Stdout:   string(res.Stdout),
		Stderr:   string(res.Stderr),
	}
}

// splitLines returns the non-empty lines of out in order. A final line
// without a trailing newline is preserved.
func splitLines(out []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
