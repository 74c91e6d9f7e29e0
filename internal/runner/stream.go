package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
)

// Source identifies which process stream a line came from.
type Source string

const (
	SourceStdout Source = "stdout"
	SourceStderr Source = "stderr"
)

// Line is one decoded output line from a streaming invocation.
type Line struct {
	Source Source
	Text   string
}

// Outcome is the terminal state of a streaming invocation. Exactly one
// of the three shapes applies: a clean exit (Err nil, Cancelled false,
// any exit code), an explicit cancellation, or an abnormal termination.
type Outcome struct {
	ExitCode  int
	Cancelled bool
	Err       error
}

// Stream supervises one streaming invocation. Lines are delivered on a
// channel in per-stream emission order; interleaving between stdout and
// stderr is best-effort. The channel closes when the invocation reaches
// a terminal state.
type Stream struct {
	lines chan Line
	quit  chan struct{} // closed on cancel; unblocks scanners
	done  chan struct{} // closed after the terminal state is recorded

	cancel     context.CancelFunc
	cancelOnce sync.Once
	cancelled  atomic.Bool

	excerptMu sync.Mutex
	excerpt   []byte // first delivered lines, capped at excerptLimit

	outcome Outcome // written once before done closes
}

// snapshot keeps the head of the delivered output for the activity
// entry, mirroring what the buffered path records.
func (s *Stream) snapshot(text string) {
	s.excerptMu.Lock()
	if len(s.excerpt) < excerptLimit {
		if len(s.excerpt) > 0 {
			s.excerpt = append(s.excerpt, '\n')
		}
		s.excerpt = append(s.excerpt, text...)
	}
	s.excerptMu.Unlock()
}

func (s *Stream) snapshotBytes() []byte {
	s.excerptMu.Lock()
	defer s.excerptMu.Unlock()
	return s.excerpt
}

// Stream starts inv and returns a handle for consuming its output. The
// invocation may be long-lived (e.g. mdfind -live, log stream); it runs
// until it exits on its own, ctx is cancelled, or Cancel is called.
func (r *Runner) Stream(ctx context.Context, inv Invocation) (*Stream, error) {
	if inv.Program == "" {
		return nil, fmt.Errorf("empty program")
	}

	ctx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...)
	cmd.Dir = inv.Dir
	// Ask nicely first; CommandContext escalates to SIGKILL after WaitDelay.
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
	cmd.WaitDelay = r.grace()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		r.record(inv, "spawn failed", -1, nil, nil)
		return nil, &SpawnError{Program: inv.Program, Err: err}
	}

	s := &Stream{
		lines:  make(chan Line, 64),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	r.Log.Debug().Str("cmd", inv.String()).Msg("streaming command started")

	var wg sync.WaitGroup
	wg.Add(2)
	go s.scan(&wg, SourceStdout, stdout)
	go s.scan(&wg, SourceStderr, stderr)

	go func() {
		wg.Wait()
		waitErr := cmd.Wait()

		out := Outcome{Cancelled: s.cancelled.Load()}
		if waitErr != nil {
			var exitErr *exec.ExitError
			if errors.As(waitErr, &exitErr) {
				out.ExitCode = exitErr.ExitCode()
			} else if !out.Cancelled {
				out.Err = waitErr
			}
		}
		s.outcome = out

		excerpt := s.snapshotBytes()
		switch {
		case out.Cancelled:
			r.record(inv, "cancelled", out.ExitCode, excerpt, nil)
		case out.Err != nil:
			r.record(inv, "failed: "+out.Err.Error(), -1, excerpt, nil)
		default:
			r.record(inv, fmt.Sprintf("exit %d", out.ExitCode), out.ExitCode, excerpt, nil)
		}
		r.Log.Debug().Str("cmd", inv.String()).Int("exit", out.ExitCode).
			Bool("cancelled", out.Cancelled).Msg("streaming command finished")

		close(s.lines)
		close(s.done)
		cancel()
	}()

	return s, nil
}

// scan reads one pipe line by line. On cancellation it stops delivering
// and drains the pipe so the dying process is never blocked on a write.
func (s *Stream) scan(wg *sync.WaitGroup, src Source, rd io.Reader) {
	defer wg.Done()

	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		s.snapshot(sc.Text())
		select {
		case s.lines <- Line{Source: src, Text: sc.Text()}:
		case <-s.quit:
			_, _ = io.Copy(io.Discard, rd)
			return
		}
	}
}

// Lines returns the channel of output lines. It is closed once the
// invocation reaches a terminal state; drain it or call Cancel.
func (s *Stream) Lines() <-chan Line { return s.lines }

// Cancel terminates the invocation and blocks until the line channel is
// closed, so no line is delivered after it returns. Idempotent: calling
// it again on a terminated stream is a no-op.
func (s *Stream) Cancel() {
	s.cancelOnce.Do(func() {
		s.cancelled.Store(true)
		close(s.quit)
		s.cancel()
	})
	<-s.done
}

// Wait blocks until the invocation reaches a terminal state and
// reports it.
func (s *Stream) Wait() Outcome {
	<-s.done
	return s.outcome
}
