package fs

import (
	"errors"
	"io"
	"os"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplOS     Implementation = "os"
	ImplMemory Implementation = "memory"
)

// ErrLockHeld is returned by ILockHandle.TryLock when the exclusive lock is
// already held by another holder (another process, or another handle within
// this process).
var ErrLockHeld = errors.New("lock held by another holder")

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IFileSystem is the filesystem capability consumed by the lock manager.
// Modelling the OS lock state as an injected capability (instead of reaching
// for the os package directly) keeps the locking semantics testable against
// an in-memory implementation.
type IFileSystem interface {
	// Name returns the identifier of the filesystem implementation.
	Name() Implementation

	// OpenLockFile opens the file at path for reading and writing, creating
	// it if it does not exist. Parent directories are never created; if one
	// is missing the call fails with an error matching os.ErrNotExist.
	OpenLockFile(path string, perm os.FileMode) (ILockHandle, error)

	// MkdirAll creates the directory at path together with any missing
	// parents. It is a no-op for directories that already exist.
	MkdirAll(path string, perm os.FileMode) error

	// Remove deletes the file at path. Removing a file does not invalidate
	// handles that are still open on it.
	Remove(path string) error
}

// ILockHandle is an open handle on a lock file. The handle doubles as the
// I/O carrier for callers that want to store diagnostic content in the lock
// file (the content is not part of any locking contract).
type ILockHandle interface {
	io.Reader
	io.Writer
	io.Seeker

	// TryLock takes a whole-file exclusive advisory lock without blocking.
	// If the lock is held elsewhere it fails immediately with an error
	// matching ErrLockHeld.
	TryLock() error

	// Unlock releases a lock previously taken with TryLock.
	Unlock() error

	// Close closes the handle. Closing also releases any lock still held
	// through it.
	Close() error
}
