package spotlight

import (
	"sync/atomic"

	"github.com/quillon/mdgate/internal/runner"
)

// LineFunc receives one output line from a live operation. It is
// invoked from a single goroutine owned by the handle.
type LineFunc func(line runner.Line)

// Handle controls one live operation. After Cancel returns, the
// callback will not be invoked again, including for lines that were
// already buffered when Cancel was called.
type Handle struct {
	op      string
	stream  *runner.Stream
	stopped atomic.Bool
	done    chan struct{}
}

func newHandle(op string, s *runner.Stream, fn LineFunc) *Handle {
	h := &Handle{op: op, stream: s, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		for line := range s.Lines() {
			if h.stopped.Load() {
				continue
			}
			fn(line)
		}
	}()
	return h
}

// Cancel stops the operation and blocks until delivery has ceased.
// Safe to call more than once and from any goroutine.
func (h *Handle) Cancel() {
	h.stopped.Store(true)
	h.stream.Cancel()
	<-h.done
}

// Wait blocks until the operation reaches a terminal state and returns
// nil for a clean exit, or a facade error describing the failure.
// Caller-initiated cancellation yields KindCancelled.
func (h *Handle) Wait() error {
	<-h.done
	out := h.stream.Wait()
	switch {
	case out.Cancelled:
		return &Error{Op: h.op, Kind: KindCancelled}
	case out.Err != nil:
		return &Error{Op: h.op, Kind: KindSpawn, Err: out.Err}
	case out.ExitCode != 0:
		return &Error{Op: h.op, Kind: KindExit, ExitCode: out.ExitCode}
	}
	return nil
}
