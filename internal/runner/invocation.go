package runner

import (
	"strings"
	"time"
)

// Invocation describes one external command. The argument vector is
// passed to the OS directly; nothing is ever interpreted by a shell.
// Immutable once constructed.
type Invocation struct {
	Program string
	Args    []string
	Dir     string        // working directory; empty means inherit
	Timeout time.Duration // overrides the runner default when > 0
}

// String renders the invocation for logs and error messages.
func (inv Invocation) String() string {
	if len(inv.Args) == 0 {
		return inv.Program
	}
	return inv.Program + " " + strings.Join(inv.Args, " ")
}

// Result holds the output of a buffered invocation.
type Result struct {
	ExitCode  int
	Stdout    []byte // captured stdout (may be truncated)
	Stderr    []byte // captured stderr (may be truncated)
	Truncated bool   // true if either stream exceeded the size cap
	Duration  time.Duration
}
