package index

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned by searches on an index that was never built or imported.
	ErrNotReady = errors.New("module index has not been built or imported")
	// ErrNoAnalyzer is returned by Analyze when the index was created without an analyzer.
	ErrNoAnalyzer = errors.New("module index has no analyzer")

	// ErrIndexNotFound means there is no index file at the given path.
	ErrIndexNotFound = errors.New("index file not found")
	// ErrIndexUnreadable means the index file exists but cannot be opened.
	ErrIndexUnreadable = errors.New("index file unreadable")
	// ErrIndexCorrupt means the index file is truncated, malformed or from an unknown format.
	ErrIndexCorrupt = errors.New("index file corrupt")
	// ErrIndexWrite means a snapshot could not be written.
	ErrIndexWrite = errors.New("index file write failed")
)

// PersistenceKind classifies a PersistenceError.
type PersistenceKind int

const (
	// KindNotFound marks a missing index file.
	KindNotFound PersistenceKind = iota
	// KindUnreadable marks a file that cannot be opened (usually permissions).
	KindUnreadable
	// KindCorrupt marks content that is not a valid snapshot.
	KindCorrupt
	// KindWrite marks a failed export.
	KindWrite
)

// String returns the string representation of PersistenceKind.
func (k PersistenceKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindUnreadable:
		return "unreadable"
	case KindCorrupt:
		return "corrupt"
	case KindWrite:
		return "write"
	default:
		return "unknown"
	}
}

func (k PersistenceKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrIndexNotFound
	case KindUnreadable:
		return ErrIndexUnreadable
	case KindCorrupt:
		return ErrIndexCorrupt
	default:
		return ErrIndexWrite
	}
}

// PersistenceError reports a failed import or export of an index file.
// It matches the Err* sentinel of its kind with errors.Is.
type PersistenceError struct {
	Kind PersistenceKind
	Path string
	Err  error
}

func newPersistenceError(kind PersistenceKind, path string, err error) *PersistenceError {
	return &PersistenceError{Kind: kind, Path: path, Err: err}
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("index %s: %s", e.Path, e.Kind.sentinel())
	}
	return fmt.Sprintf("index %s: %s: %v", e.Path, e.Kind.sentinel(), e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *PersistenceError) Is(target error) bool {
	return target == e.Kind.sentinel()
}
