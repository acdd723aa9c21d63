// Package framework holds the generic framework abstraction: the
// interface a concrete framework implements, the guard that makes
// extension iteration resource-safe, and the derived acceptance
// operations built on plain iteration.
package framework

// Extension is the minimal view the generic operations need of a
// semantics result.
type Extension interface {
	// Contains reports membership of the given argument ID.
	Contains(id string) bool
	// Format renders the extension in the competition output format.
	Format() string
}

// ExtensionIter produces extensions one at a time. Next returns ok=false
// once the search is exhausted. Close returns the underlying solve handle
// to its session and must be idempotent; the guard guarantees it runs on
// every exit path.
type ExtensionIter[E Extension] interface {
	Next() (E, bool, error)
	Close() error
}

// Framework is a generic argumentation framework: it can enumerate the
// extensions of its current revision and apply textual update lines.
type Framework[E Extension] interface {
	// EnumerateExtensions starts a guarded enumeration. The session is
	// exclusively owned by the guard until Close.
	EnumerateExtensions() (*IterGuard[E], error)
	// Update parses one update line and applies it as a single revision.
	Update(line string) error
}
