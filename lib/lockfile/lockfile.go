package lockfile

import (
	"os"
	"runtime"
	"sync"

	"github.com/derekdreery/lockfile/lib/fs"
)

// Lockfile is the owning handle of an acquired advisory file lock. While the
// instance is live and not yet released, the path is exclusively locked: no
// other Lockfile, in this process or another, can acquire it.
//
// The zero value is not usable; Lockfiles are created by a lock manager.
type Lockfile struct {
	mu         sync.Mutex
	path       string
	handle     fs.ILockHandle
	filesystem fs.IFileSystem
	observer   ILockObserver
}

// Path returns the path of the lock file.
func (l *Lockfile) Path() string {
	return l.path
}

// Release releases the lock, closes the handle and removes the lock file,
// freeing the path for future acquisition. After the first call the instance
// is inert: further calls return nil and the handle I/O methods fail.
//
// If an I/O error occurs mid-release the instance is still considered
// released (nothing is leaked) and the first error encountered is reported.
func (l *Lockfile) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.release()
}

// Close releases the lock; it is an alias for Release satisfying io.Closer
// so a Lockfile can sit at the end of a defer chain.
func (l *Lockfile) Close() error {
	return l.Release()
}

func (l *Lockfile) release() error {
	if l.handle == nil {
		return nil
	}
	runtime.SetFinalizer(l, nil)
	handle := l.handle
	l.handle = nil

	// Unlock, close and remove unconditionally; report the first failure.
	err := handle.Unlock()
	if closeErr := handle.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if removeErr := l.filesystem.Remove(l.path); removeErr != nil && err == nil {
		if !os.IsNotExist(removeErr) {
			err = removeErr
		}
	}

	l.observer.Released(l.path, err)
	if err != nil {
		return NewError(RetCIo, l.path, err)
	}
	return nil
}

// finalize is the GC safety net registered by the lock manager. It mirrors
// the scoped-cleanup guarantee: a Lockfile dropped without Release still
// frees the path.
func (l *Lockfile) finalize() {
	_ = l.Release()
}

// --------------------------------------------------------------------------
// Handle I/O
// --------------------------------------------------------------------------

// Read reads from the underlying lock file. The file content is purely
// diagnostic; it is not part of the locking contract.
func (l *Lockfile) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handle == nil {
		return 0, NewError(RetCIo, l.path, os.ErrClosed)
	}
	return l.handle.Read(p)
}

// Write writes to the underlying lock file.
func (l *Lockfile) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handle == nil {
		return 0, NewError(RetCIo, l.path, os.ErrClosed)
	}
	return l.handle.Write(p)
}

// Seek sets the offset for the next Read or Write on the lock file.
func (l *Lockfile) Seek(offset int64, whence int) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handle == nil {
		return 0, NewError(RetCIo, l.path, os.ErrClosed)
	}
	return l.handle.Seek(offset, whence)
}
