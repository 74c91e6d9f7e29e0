// Package runner executes external commands without a shell, with
// timeouts, bounded output capture, and line-by-line streaming. Every
// invocation is recorded exactly once in the activity log, whatever its
// outcome.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quillon/mdgate/internal/activity"
)

// Default limits applied when the corresponding Runner field is zero.
const (
	DefaultTimeout   = 60 * time.Second
	DefaultMaxOutput = 1 << 20 // 1 MB
	DefaultGrace     = 3 * time.Second
)

// excerptLimit caps the output snapshot stored per activity entry.
const excerptLimit = 200

// Runner executes commands. Multiple invocations may be in flight at
// once; the only shared state is the activity log, which serializes
// internally.
type Runner struct {
	Timeout   time.Duration // default deadline for buffered runs
	MaxOutput int           // bytes captured per stream
	Grace     time.Duration // SIGTERM-to-SIGKILL escalation window
	Activity  *activity.Log // optional; nil disables recording
	Log       zerolog.Logger
}

// Run executes inv and waits for it to exit, returning the full
// captured output and exit code. A non-zero exit is reported in the
// Result, not as an error; that judgment belongs to the caller. The
// process is killed and a *TimeoutError returned when the deadline
// elapses first.
func (r *Runner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	if inv.Program == "" {
		return nil, fmt.Errorf("empty program")
	}

	timeout := r.timeout(inv)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...)
	cmd.Dir = inv.Dir

	max := r.maxOutput()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdout, limit: max}
	cmd.Stderr = &limitWriter{buf: &stderr, limit: max}

	start := time.Now()
	runErr := cmd.Run()

	res := &Result{
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		Truncated: stdout.Len() >= max || stderr.Len() >= max,
		Duration:  time.Since(start),
	}

	if runErr != nil {
		switch {
		case ctx.Err() == context.DeadlineExceeded:
			r.record(inv, "timeout", -1, res.Stdout, res.Stderr)
			return nil, &TimeoutError{Invocation: inv, Timeout: timeout, Stdout: res.Stdout, Stderr: res.Stderr}
		case ctx.Err() != nil:
			// The caller's context was cancelled; the kill shows up as an
			// ExitError, which must not be reported as a normal exit.
			r.record(inv, "cancelled", -1, res.Stdout, res.Stderr)
			return nil, fmt.Errorf("%s: %w", inv, ctx.Err())
		}
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			// Binary not found or other exec error.
			r.record(inv, "spawn failed", -1, nil, nil)
			return nil, &SpawnError{Program: inv.Program, Err: runErr}
		}
		res.ExitCode = exitErr.ExitCode()
	}

	r.Log.Debug().Str("cmd", inv.String()).Int("exit", res.ExitCode).
		Dur("duration", res.Duration).Msg("command finished")
	r.record(inv, fmt.Sprintf("exit %d", res.ExitCode), res.ExitCode, res.Stdout, res.Stderr)
	return res, nil
}

func (r *Runner) timeout(inv Invocation) time.Duration {
	if inv.Timeout > 0 {
		return inv.Timeout
	}
	if r.Timeout > 0 {
		return r.Timeout
	}
	return DefaultTimeout
}

func (r *Runner) maxOutput() int {
	if r.MaxOutput > 0 {
		return r.MaxOutput
	}
	return DefaultMaxOutput
}

func (r *Runner) grace() time.Duration {
	if r.Grace > 0 {
		return r.Grace
	}
	return DefaultGrace
}

// record appends one activity entry for an invocation.
func (r *Runner) record(inv Invocation, outcome string, exitCode int, stdout, stderr []byte) {
	if r.Activity == nil {
		return
	}
	r.Activity.Append(activity.Entry{
		ID:       uuid.New().String(),
		Time:     time.Now(),
		Command:  inv.String(),
		Outcome:  outcome,
		ExitCode: exitCode,
		Excerpt:  excerpt(stdout, stderr),
	})
}

// excerpt returns a truncated snapshot of the output, preferring stdout.
func excerpt(stdout, stderr []byte) string {
	s := strings.TrimSpace(string(stdout))
	if s == "" {
		s = strings.TrimSpace(string(stderr))
	}
	if len(s) > excerptLimit {
		s = s[:excerptLimit] + "..."
	}
	return s
}

// limitWriter writes up to limit bytes to buf, then silently discards the rest.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		// Write only what fits, but report all bytes as consumed
		// to avoid short write errors from io.Copy.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
