// Package activity keeps a bounded in-memory record of recent command
// invocations for diagnostics. The log is the only state shared between
// concurrent invocations; all mutation goes through Append.
package activity

import (
	"sync"
	"time"
)

// DefaultCapacity is used when a log is created with a non-positive capacity.
const DefaultCapacity = 200

// Entry records one command invocation and its outcome.
type Entry struct {
	ID       string    `json:"id"`      // unique identifier for the invocation
	Time     time.Time `json:"time"`    // when the invocation finished
	Command  string    `json:"command"` // rendered argv
	Outcome  string    `json:"outcome"` // e.g. "exit 0", "timeout", "spawn failed", "cancelled"
	ExitCode int       `json:"exit_code"`
	Excerpt  string    `json:"excerpt,omitempty"` // truncated snapshot of the output
}

// Log is a fixed-capacity ring buffer of entries. Appending beyond
// capacity evicts the oldest entry. Safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	next    int // index of the next write
	count   int // number of populated slots, <= cap(entries)

	journal *Journal // optional write-through persistence
}

// NewLog creates a log holding at most capacity entries.
func NewLog(capacity int) *Log {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Log{entries: make([]Entry, capacity)}
}

// Persist attaches a journal; every appended entry is also written
// through to it. Journal write failures do not block the ring.
func (l *Log) Persist(j *Journal) {
	l.mu.Lock()
	l.journal = j
	l.mu.Unlock()
}

// Append records an entry, evicting the oldest when the log is full.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	l.entries[l.next] = e
	l.next = (l.next + 1) % len(l.entries)
	if l.count < len(l.entries) {
		l.count++
	}
	j := l.journal
	l.mu.Unlock()

	if j != nil {
		_ = j.Append(e)
	}
}

// Recent returns up to n entries in append order, newest last.
func (l *Log) Recent(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > l.count || n < 0 {
		n = l.count
	}
	out := make([]Entry, 0, n)
	// Walk backwards from the newest slot, then reverse.
	for i := 0; i < n; i++ {
		idx := (l.next - 1 - i + len(l.entries)*2) % len(l.entries)
		out = append(out, l.entries[idx])
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Len returns the number of entries currently held.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Capacity returns the maximum number of entries the log can hold.
func (l *Log) Capacity() int {
	return len(l.entries)
}
