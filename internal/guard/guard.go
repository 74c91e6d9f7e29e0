// Package guard enforces the protected-volume policy. Every path-like
// argument must pass the policy before any subprocess is spawned; the
// check is pure and performs no I/O, so there is no gap between the
// check and the spawn.
package guard

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultProtected is the volume name protected out of the box.
const DefaultProtected = "B1 8TBPii"

// Violation reports an operation that targeted a protected volume.
// It is always fatal to the call that raised it.
type Violation struct {
	Resource string // the protected volume name
	Path     string // the offending argument
}

func (v *Violation) Error() string {
	return fmt.Sprintf("operation aborted: %q targets protected volume %q", v.Path, v.Resource)
}

// Policy is an immutable set of protected volume names. The zero value
// protects nothing; use NewPolicy.
type Policy struct {
	names []string
}

// NewPolicy builds a policy from the given volume names. With no names
// it falls back to DefaultProtected.
func NewPolicy(names ...string) *Policy {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			cleaned = append(cleaned, n)
		}
	}
	if len(cleaned) == 0 {
		cleaned = []string{DefaultProtected}
	}
	return &Policy{names: cleaned}
}

// IsProtected reports whether path refers to a protected volume, either
// as the volume component under /Volumes (covering everything mounted
// beneath it) or as the final path component. Comparison is case- and
// surrounding-whitespace-insensitive. A protected name appearing merely
// as a substring of an unrelated component does not match.
func (p *Policy) IsProtected(path string) bool {
	return p.Check(path) != nil
}

// Check returns a *Violation when path refers to a protected volume,
// nil otherwise.
func (p *Policy) Check(path string) error {
	clean := filepath.Clean(strings.TrimSpace(path))
	base := filepath.Base(clean)

	parts := strings.Split(clean, "/")
	var volume string
	if len(parts) > 2 && parts[0] == "" && strings.EqualFold(parts[1], "Volumes") {
		volume = parts[2]
	}

	for _, name := range p.names {
		if strings.EqualFold(base, name) || (volume != "" && strings.EqualFold(volume, name)) {
			return &Violation{Resource: name, Path: path}
		}
	}
	return nil
}

// Names returns the protected volume names, for display.
func (p *Policy) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}
