package activity

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Journal persists activity entries as JSON lines so the history
// survives across short-lived CLI processes. The parent directory is
// created lazily on the first write.
type Journal struct {
	mu   sync.Mutex
	path string
	cap  int
}

// OpenJournal returns a journal backed by the file at path, pruned to
// roughly cap entries.
func OpenJournal(path string, cap int) *Journal {
	if cap <= 0 {
		cap = DefaultCapacity
	}
	return &Journal{path: path, cap: cap}
}

// Append writes one entry to the journal, pruning the file when it has
// grown to twice the capacity.
func (j *Journal) Append(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return fmt.Errorf("creating journal directory: %w", err)
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshalling entry %s: %w", e.ID, err)
	}

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	_, werr := f.Write(append(data, '\n'))
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("writing journal: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("closing journal: %w", cerr)
	}

	return j.pruneLocked()
}

// Recent returns up to n entries from the journal, newest last.
// A missing journal file yields an empty history, not an error.
func (j *Journal) Recent(n int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.readLocked()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

func (j *Journal) readLocked() ([]Entry, error) {
	f, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			// A torn final line from a crashed writer is dropped.
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	return entries, nil
}

func (j *Journal) pruneLocked() error {
	entries, err := j.readLocked()
	if err != nil || len(entries) <= 2*j.cap {
		return err
	}

	entries = entries[len(entries)-j.cap:]
	tmp := j.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("pruning journal: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			f.Close()
			return fmt.Errorf("marshalling entry %s: %w", e.ID, err)
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("pruning journal: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("pruning journal: %w", err)
	}
	return os.Rename(tmp, j.path)
}
