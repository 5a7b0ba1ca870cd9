package lockfile

import (
	"fmt"
	"os"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// ILockManager creates advisory file locks on a filesystem capability.
type ILockManager interface {
	// Create atomically creates and exclusively locks the lock file at path.
	// It fails with ErrNotFound if a parent directory of path does not
	// exist, with ErrAlreadyLocked if another holder owns the lock, with
	// ErrPermissionDenied or ErrIo on underlying filesystem failures.
	// Acquisition is a single non-blocking attempt; there is no waiting and
	// no retry.
	Create(path string) (*Lockfile, error)

	// CreateWithParents first ensures all parent directories of path exist,
	// creating them if necessary, and then proceeds exactly like Create.
	// Directories created this way are not rolled back if the subsequent
	// acquisition fails.
	CreateWithParents(path string) (*Lockfile, error)

	// With acquires the lock at path, runs fn while holding it, and
	// releases it again on all exit paths. The error from fn is returned
	// unchanged; acquisition failures are reported like Create's.
	With(path string, fn func() error) error
}

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Option configures a lock manager created with NewLockManager.
type Option func(*lockMgrImpl)

// WithObserver installs an observer that is notified of acquisition and
// release events. The default observer discards all events.
func WithObserver(observer ILockObserver) Option {
	return func(m *lockMgrImpl) {
		if observer != nil {
			m.observer = observer
		}
	}
}

// WithFileMode sets the permission bits used when the manager creates lock
// files (default 0644) and, shifted by the usual execute bits, when
// CreateWithParents creates directories (default 0755).
func WithFileMode(mode os.FileMode) Option {
	return func(m *lockMgrImpl) {
		m.fileMode = mode
	}
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// RetCode classifies lockfile errors.
type RetCode uint64

const (
	RetCSuccess          RetCode = iota // 0: Operation executed successfully.
	RetCNotFound                        // 1: A parent directory of the lock path does not exist.
	RetCAlreadyLocked                   // 2: The lock is held by another holder.
	RetCPermissionDenied                // 3: The filesystem denied access.
	RetCIo                              // 4: Generic underlying I/O failure.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCNotFound:
		return "NotFound"
	case RetCAlreadyLocked:
		return "AlreadyLocked"
	case RetCPermissionDenied:
		return "PermissionDenied"
	case RetCIo:
		return "Io"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by all lockfile operations. It wraps the
// underlying filesystem error together with a return code and the lock path,
// so callers can branch on the class of failure without inspecting platform
// errno values.
type Error struct {
	Code RetCode // The return code
	Path string  // The lock file path the operation worked on
	Err  error   // The underlying error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lockfile %q: %s: %v", e.Path, e.Code, e.Err)
	}
	return fmt.Sprintf("lockfile %q: %s", e.Path, e.Code)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two lockfile errors by return code, which makes
// errors.Is(err, ErrAlreadyLocked) work against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new lockfile Error with the given code, path and cause.
func NewError(code RetCode, path string, err error) *Error {
	return &Error{
		Code: code,
		Path: path,
		Err:  err,
	}
}

// Sentinel errors for use with errors.Is.
var (
	ErrNotFound         = &Error{Code: RetCNotFound}
	ErrAlreadyLocked    = &Error{Code: RetCAlreadyLocked}
	ErrPermissionDenied = &Error{Code: RetCPermissionDenied}
	ErrIo               = &Error{Code: RetCIo}
)
