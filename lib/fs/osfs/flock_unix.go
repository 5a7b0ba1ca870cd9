//go:build !windows

package osfs

import (
	"errors"

	"github.com/derekdreery/lockfile/lib/fs"
	"golang.org/x/sys/unix"
)

// TryLock takes a non-blocking exclusive flock on the whole file.
func (h *lockHandle) TryLock() error {
	err := unix.Flock(int(h.file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	// Older systems report contention as EWOULDBLOCK, others as EAGAIN.
	if errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN) {
		return fs.ErrLockHeld
	}
	return err
}

func (h *lockHandle) Unlock() error {
	return unix.Flock(int(h.file.Fd()), unix.LOCK_UN)
}
