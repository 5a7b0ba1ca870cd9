// Package testing provides a standardised conformance test suite for
// implementations of the fs.IFileSystem interface.
//
// The suite validates the contracts the lockfile package depends on: the
// os.ErrNotExist error shape for missing parent directories, fs.ErrLockHeld
// on lock contention, lock release through both Unlock and Close, and plain
// file I/O through the handle.
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func(t *testing.T) (fs.IFileSystem, string) {
//		return myfs.New(), t.TempDir()
//	}
//
//	// Running the standard test suite
//	fstesting.RunFileSystemTests(t, "MyFS", factory)
package testing
