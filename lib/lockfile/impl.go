package lockfile

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/derekdreery/lockfile/lib/fs"
	"github.com/derekdreery/lockfile/lib/fs/osfs"
)

type lockMgrImpl struct {
	filesystem fs.IFileSystem
	observer   ILockObserver
	fileMode   os.FileMode
}

// NewLockManager creates a lock manager over the given filesystem
// capability. With no options it observes nothing and creates lock files
// with mode 0644.
func NewLockManager(filesystem fs.IFileSystem, opts ...Option) ILockManager {
	m := &lockMgrImpl{
		filesystem: filesystem,
		observer:   noopObserver{},
		fileMode:   0o644,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// --------------------------------------------------------------------------
// Package-level convenience API (default manager on the host filesystem)
// --------------------------------------------------------------------------

var defaultManager = NewLockManager(osfs.New())

// Create acquires the lock at path using the host filesystem.
// See ILockManager.Create.
func Create(path string) (*Lockfile, error) {
	return defaultManager.Create(path)
}

// CreateWithParents acquires the lock at path using the host filesystem,
// creating missing parent directories first. See
// ILockManager.CreateWithParents.
func CreateWithParents(path string) (*Lockfile, error) {
	return defaultManager.CreateWithParents(path)
}

// With runs fn while holding the lock at path on the host filesystem.
// See ILockManager.With.
func With(path string, fn func() error) error {
	return defaultManager.With(path, fn)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see interface.go)
// --------------------------------------------------------------------------

func (m *lockMgrImpl) Create(path string) (*Lockfile, error) {
	return m.create(path, false)
}

func (m *lockMgrImpl) CreateWithParents(path string) (*Lockfile, error) {
	return m.create(path, true)
}

func (m *lockMgrImpl) With(path string, fn func() error) error {
	lock, err := m.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release()
	}()
	return fn()
}

// --------------------------------------------------------------------------
// Acquisition
// --------------------------------------------------------------------------

func (m *lockMgrImpl) create(path string, withParents bool) (*Lockfile, error) {
	if withParents {
		if err := m.filesystem.MkdirAll(filepath.Dir(path), m.dirMode()); err != nil {
			return nil, m.classify(path, err)
		}
	}

	handle, err := m.filesystem.OpenLockFile(path, m.fileMode)
	if err != nil {
		return nil, m.classify(path, err)
	}

	if err := handle.TryLock(); err != nil {
		// The file is not removed here: it may be another holder's live
		// lock token.
		_ = handle.Close()
		return nil, m.classify(path, err)
	}

	lock := &Lockfile{
		path:       path,
		handle:     handle,
		filesystem: m.filesystem,
		observer:   m.observer,
	}
	// Scope-exit safety net: a Lockfile that becomes unreachable without an
	// explicit Release is released when the garbage collector finds it.
	runtime.SetFinalizer(lock, (*Lockfile).finalize)

	m.observer.Acquired(path)
	return lock, nil
}

// dirMode derives directory permissions from the file mode by granting
// execute wherever read is granted (0644 file mode gives 0755 directories).
func (m *lockMgrImpl) dirMode() os.FileMode {
	return m.fileMode | (m.fileMode&0o444)>>2
}

func (m *lockMgrImpl) classify(path string, err error) *Error {
	code := classifyCode(err)
	if code == RetCAlreadyLocked {
		m.observer.Contended(path)
	}
	return NewError(code, path, err)
}

// classifyCode maps an underlying filesystem error onto the lockfile error
// taxonomy. Contention surfaces either as fs.ErrLockHeld (from the fs
// capability) or as EWOULDBLOCK/EAGAIN; older systems use the two errno
// values interchangeably, so both are checked.
func classifyCode(err error) RetCode {
	switch {
	case errors.Is(err, fs.ErrLockHeld),
		errors.Is(err, syscall.EWOULDBLOCK),
		errors.Is(err, syscall.EAGAIN):
		return RetCAlreadyLocked
	case errors.Is(err, os.ErrNotExist):
		return RetCNotFound
	case errors.Is(err, os.ErrPermission):
		return RetCPermissionDenied
	default:
		return RetCIo
	}
}
