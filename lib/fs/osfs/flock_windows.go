//go:build windows

package osfs

import (
	"errors"

	"github.com/derekdreery/lockfile/lib/fs"
	"golang.org/x/sys/windows"
)

// TryLock locks the whole file (offset 0, maximum length) exclusively.
// LOCKFILE_FAIL_IMMEDIATELY makes LockFileEx non-blocking.
func (h *lockHandle) TryLock() error {
	ol := new(windows.Overlapped)
	err := windows.LockFileEx(
		windows.Handle(h.file.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0, ^uint32(0), ^uint32(0), ol,
	)
	if errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
		return fs.ErrLockHeld
	}
	return err
}

func (h *lockHandle) Unlock() error {
	ol := new(windows.Overlapped)
	return windows.UnlockFileEx(
		windows.Handle(h.file.Fd()),
		0, ^uint32(0), ^uint32(0), ol,
	)
}
