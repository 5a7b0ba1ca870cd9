package memfs

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/derekdreery/lockfile/lib/fs"
)

// memFile is the shared state behind all handles opened on one path.
type memFile struct {
	mu     sync.Mutex
	data   []byte
	locked bool
}

type lockHandle struct {
	mu     sync.Mutex
	file   *memFile
	offset int64
	closed bool
	holds  bool
}

func (h *lockHandle) TryLock() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return os.ErrClosed
	}
	if h.holds {
		return nil
	}
	h.file.mu.Lock()
	defer h.file.mu.Unlock()
	if h.file.locked {
		return fs.ErrLockHeld
	}
	h.file.locked = true
	h.holds = true
	return nil
}

func (h *lockHandle) Unlock() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return os.ErrClosed
	}
	h.release()
	return nil
}

func (h *lockHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return os.ErrClosed
	}
	h.release()
	h.closed = true
	return nil
}

// release drops the lock if this handle holds it. Caller must hold h.mu.
func (h *lockHandle) release() {
	if !h.holds {
		return
	}
	h.file.mu.Lock()
	h.file.locked = false
	h.file.mu.Unlock()
	h.holds = false
}

func (h *lockHandle) Read(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, os.ErrClosed
	}
	h.file.mu.Lock()
	defer h.file.mu.Unlock()
	if h.offset >= int64(len(h.file.data)) {
		return 0, io.EOF
	}
	n := copy(p, h.file.data[h.offset:])
	h.offset += int64(n)
	return n, nil
}

func (h *lockHandle) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, os.ErrClosed
	}
	h.file.mu.Lock()
	defer h.file.mu.Unlock()
	end := h.offset + int64(len(p))
	if end > int64(len(h.file.data)) {
		grown := make([]byte, end)
		copy(grown, h.file.data)
		h.file.data = grown
	}
	copy(h.file.data[h.offset:end], p)
	h.offset = end
	return len(p), nil
}

func (h *lockHandle) Seek(offset int64, whence int) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, os.ErrClosed
	}
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = h.offset
	case io.SeekEnd:
		h.file.mu.Lock()
		base = int64(len(h.file.data))
		h.file.mu.Unlock()
	default:
		return 0, fmt.Errorf("seek: invalid whence %d", whence)
	}
	next := base + offset
	if next < 0 {
		return 0, fmt.Errorf("seek: negative position %d", next)
	}
	h.offset = next
	return next, nil
}
