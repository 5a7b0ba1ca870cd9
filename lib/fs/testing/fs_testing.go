package testing

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/derekdreery/lockfile/lib/fs"
)

// Factory creates a fresh filesystem under test and returns a writable root
// directory within it.
type Factory func(t *testing.T) (filesystem fs.IFileSystem, root string)

// RunFileSystemTests runs the conformance test suite for an IFileSystem
// implementation.
func RunFileSystemTests(t *testing.T, name string, factory Factory) {
	t.Run(name, func(t *testing.T) {
		t.Run("OpenAndClose", func(t *testing.T) {
			testOpenAndClose(t, factory)
		})

		t.Run("MissingParent", func(t *testing.T) {
			testMissingParent(t, factory)
		})

		t.Run("MkdirAll", func(t *testing.T) {
			testMkdirAll(t, factory)
		})

		t.Run("ExclusiveLock", func(t *testing.T) {
			testExclusiveLock(t, factory)
		})

		t.Run("UnlockAllowsRelock", func(t *testing.T) {
			testUnlockAllowsRelock(t, factory)
		})

		t.Run("CloseReleasesLock", func(t *testing.T) {
			testCloseReleasesLock(t, factory)
		})

		t.Run("ReadWriteSeek", func(t *testing.T) {
			testReadWriteSeek(t, factory)
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory)
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testOpenAndClose(t *testing.T, factory Factory) {
	filesystem, root := factory(t)
	path := filepath.Join(root, "a.lock")

	handle, err := filesystem.OpenLockFile(path, 0o644)
	if err != nil {
		t.Fatalf("OpenLockFile failed: %v", err)
	}
	if err := handle.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopening an existing file must succeed.
	handle, err = filesystem.OpenLockFile(path, 0o644)
	if err != nil {
		t.Fatalf("reopening existing file failed: %v", err)
	}
	if err := handle.Close(); err != nil {
		t.Fatalf("Close after reopen failed: %v", err)
	}
}

func testMissingParent(t *testing.T, factory Factory) {
	filesystem, root := factory(t)
	path := filepath.Join(root, "no", "such", "dir", "a.lock")

	_, err := filesystem.OpenLockFile(path, 0o644)
	if err == nil {
		t.Fatal("expected OpenLockFile to fail with missing parent")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected error matching os.ErrNotExist, got %v", err)
	}
}

func testMkdirAll(t *testing.T, factory Factory) {
	filesystem, root := factory(t)
	dir := filepath.Join(root, "nested", "deeper")

	if err := filesystem.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	// Creating an existing directory tree is a no-op.
	if err := filesystem.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll on existing directory failed: %v", err)
	}

	handle, err := filesystem.OpenLockFile(filepath.Join(dir, "a.lock"), 0o644)
	if err != nil {
		t.Fatalf("OpenLockFile below created directory failed: %v", err)
	}
	if err := handle.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func testExclusiveLock(t *testing.T, factory Factory) {
	filesystem, root := factory(t)
	path := filepath.Join(root, "a.lock")

	first, err := filesystem.OpenLockFile(path, 0o644)
	if err != nil {
		t.Fatalf("OpenLockFile failed: %v", err)
	}
	defer first.Close()
	if err := first.TryLock(); err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}

	second, err := filesystem.OpenLockFile(path, 0o644)
	if err != nil {
		t.Fatalf("second OpenLockFile failed: %v", err)
	}
	defer second.Close()
	if err := second.TryLock(); !errors.Is(err, fs.ErrLockHeld) {
		t.Errorf("expected ErrLockHeld from contending TryLock, got %v", err)
	}
}

func testUnlockAllowsRelock(t *testing.T, factory Factory) {
	filesystem, root := factory(t)
	path := filepath.Join(root, "a.lock")

	first, err := filesystem.OpenLockFile(path, 0o644)
	if err != nil {
		t.Fatalf("OpenLockFile failed: %v", err)
	}
	defer first.Close()
	if err := first.TryLock(); err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	second, err := filesystem.OpenLockFile(path, 0o644)
	if err != nil {
		t.Fatalf("second OpenLockFile failed: %v", err)
	}
	defer second.Close()
	if err := second.TryLock(); err != nil {
		t.Errorf("TryLock after Unlock failed: %v", err)
	}
}

func testCloseReleasesLock(t *testing.T, factory Factory) {
	filesystem, root := factory(t)
	path := filepath.Join(root, "a.lock")

	first, err := filesystem.OpenLockFile(path, 0o644)
	if err != nil {
		t.Fatalf("OpenLockFile failed: %v", err)
	}
	if err := first.TryLock(); err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := filesystem.OpenLockFile(path, 0o644)
	if err != nil {
		t.Fatalf("second OpenLockFile failed: %v", err)
	}
	defer second.Close()
	if err := second.TryLock(); err != nil {
		t.Errorf("TryLock after Close failed: %v", err)
	}
}

func testReadWriteSeek(t *testing.T, factory Factory) {
	filesystem, root := factory(t)
	path := filepath.Join(root, "a.lock")

	handle, err := filesystem.OpenLockFile(path, 0o644)
	if err != nil {
		t.Fatalf("OpenLockFile failed: %v", err)
	}
	defer handle.Close()

	payload := []byte("diagnostic content")
	if n, err := handle.Write(payload); err != nil || n != len(payload) {
		t.Fatalf("Write = (%d, %v), want (%d, nil)", n, err, len(payload))
	}

	pos, err := handle.Seek(0, io.SeekStart)
	if err != nil || pos != 0 {
		t.Fatalf("Seek = (%d, %v), want (0, nil)", pos, err)
	}

	got := make([]byte, len(payload))
	if _, err := io.ReadFull(handle, got); err != nil {
		t.Fatalf("ReadFull failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("read back %q, want %q", got, payload)
	}

	end, err := handle.Seek(0, io.SeekEnd)
	if err != nil || end != int64(len(payload)) {
		t.Errorf("Seek end = (%d, %v), want (%d, nil)", end, err, len(payload))
	}
}

func testRemove(t *testing.T, factory Factory) {
	filesystem, root := factory(t)
	path := filepath.Join(root, "a.lock")

	handle, err := filesystem.OpenLockFile(path, 0o644)
	if err != nil {
		t.Fatalf("OpenLockFile failed: %v", err)
	}
	if err := handle.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := filesystem.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := filesystem.Remove(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist removing missing file, got %v", err)
	}
}
