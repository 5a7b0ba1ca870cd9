package osfs

import (
	"os"

	"github.com/derekdreery/lockfile/lib/fs"
)

type fileSystem struct{}

// New returns the filesystem backed by the host OS.
func New() fs.IFileSystem {
	return fileSystem{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see fs/interface.go)
// --------------------------------------------------------------------------

func (fileSystem) Name() fs.Implementation {
	return fs.ImplOS
}

func (fileSystem) OpenLockFile(path string, perm os.FileMode) (fs.ILockHandle, error) {
	// O_CREATE without O_EXCL: the file may be another holder's live lock
	// token, the flock below is the authority on exclusivity.
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, perm)
	if err != nil {
		return nil, err
	}
	return &lockHandle{file: file}, nil
}

func (fileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (fileSystem) Remove(path string) error {
	return os.Remove(path)
}

// --------------------------------------------------------------------------
// Lock Handle
// --------------------------------------------------------------------------

type lockHandle struct {
	file *os.File
}

func (h *lockHandle) Read(p []byte) (int, error) {
	return h.file.Read(p)
}

func (h *lockHandle) Write(p []byte) (int, error) {
	return h.file.Write(p)
}

func (h *lockHandle) Seek(offset int64, whence int) (int64, error) {
	return h.file.Seek(offset, whence)
}

// TryLock and Unlock are implemented per platform in flock_unix.go and
// flock_windows.go.

func (h *lockHandle) Close() error {
	// The OS drops any lock held through the descriptor on close.
	return h.file.Close()
}
