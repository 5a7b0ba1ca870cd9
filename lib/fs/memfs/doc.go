// Package memfs implements the fs.IFileSystem capability entirely in memory.
// It exists for tests: the lockfile semantics can be exercised without
// touching the host filesystem or depending on a platform lock primitive.
//
// The implementation mirrors the error contracts of the real filesystem:
// opening a lock file whose parent directory was never created fails with an
// os.ErrNotExist-matching error, and locking a file that another handle has
// locked fails with fs.ErrLockHeld. All handles opened on the same (cleaned)
// path share one underlying file, so locks contend within a process the same
// way flock locks do.
//
// All operations are safe for concurrent use; the path tables are held in
// xsync maps and per-file state is guarded by a mutex.
package memfs
