package runner

import (
	"fmt"
	"time"
)

// SpawnError reports an executable that could not be launched.
type SpawnError struct {
	Program string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawning %s: %v", e.Program, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// TimeoutError reports an invocation that was forcibly terminated after
// its deadline. Output collected before termination is attached for
// diagnostics.
type TimeoutError struct {
	Invocation Invocation
	Timeout    time.Duration
	Stdout     []byte
	Stderr     []byte
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Invocation, e.Timeout)
}
