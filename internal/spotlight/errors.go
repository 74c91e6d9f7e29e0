package spotlight

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errEmptyQuery     = errors.New("query must not be empty")
	errEmptyPath      = errors.New("path must not be empty")
	errEmptyPredicate = errors.New("predicate must not be empty")
)

// Kind classifies a facade failure. Callers branch on the kind rather
// than string-matching error text.
type Kind int

const (
	// KindSafety marks an operation blocked by the protection policy
	// before any process was spawned.
	KindSafety Kind = iota
	// KindInvalidArgument marks input rejected before execution.
	KindInvalidArgument
	// KindSpawn marks a process that could not be started.
	KindSpawn
	// KindTimeout marks a process killed after exceeding its deadline.
	KindTimeout
	// KindExit marks a process that ran and returned a non-zero code.
	KindExit
	// KindParse marks tool output that could not be interpreted.
	KindParse
	// KindCancelled marks a streaming operation stopped by the caller.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindSafety:
		return "safety"
	case KindInvalidArgument:
		return "invalid-argument"
	case KindSpawn:
		return "spawn"
	case KindTimeout:
		return "timeout"
	case KindExit:
		return "exit"
	case KindParse:
		return "parse"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error is the structured failure type for all facade operations.
type Error struct {
	Op       string // operation name, e.g. "status"
	Kind     Kind
	Resource string // protected resource, for KindSafety
	ExitCode int    // for KindExit
	Stdout   string // captured output at failure, possibly empty
	Stderr   string
	Err      error // underlying cause, possibly nil
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Op, e.Kind)
	switch {
	case e.Kind == KindSafety && e.Resource != "":
		fmt.Fprintf(&b, ": protected volume %q", e.Resource)
	case e.Kind == KindExit:
		fmt.Fprintf(&b, " %d", e.ExitCode)
		if s := strings.TrimSpace(e.Stderr); s != "" {
			fmt.Fprintf(&b, ": %s", s)
		}
	}
	if e.Err != nil && e.Kind != KindSafety {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or ok=false when err carries no
// facade classification.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}
