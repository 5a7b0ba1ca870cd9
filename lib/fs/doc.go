// Package fs defines the filesystem capability used by the lockfile package.
// It abstracts the handful of filesystem operations that advisory file
// locking needs - opening a lock file, creating parent directories, removing
// the file again, and taking a whole-file exclusive lock on an open handle -
// behind a small interface so that the locking semantics can be exercised
// without touching the real filesystem.
//
// The package focuses on:
//   - A minimal capability interface (IFileSystem) for lock-related
//     filesystem access
//   - A handle interface (ILockHandle) combining the OS lock primitive with
//     plain file I/O
//   - Implementation identifiers for the available backends
//
// Key Components:
//
//   - IFileSystem Interface: The capability every lock manager consumes.
//     Implementations must preserve two error contracts: OpenLockFile fails
//     with an os.ErrNotExist-matching error when a parent directory is
//     missing, and ILockHandle.TryLock fails with ErrLockHeld when the lock
//     is already held. The lock manager classifies its own errors purely
//     from these contracts, without platform knowledge.
//
//   - ILockHandle Interface: An open lock file. TryLock is non-blocking by
//     design; there is deliberately no blocking variant, matching the
//     attempt-once acquisition model of the lockfile package. The handle
//     also implements io.Reader, io.Writer and io.Seeker so callers can
//     write diagnostic content into the lock file.
//
// Locking Model:
//
//	The lock primitive is a whole-file exclusive advisory lock. Advisory
//	means it is respected only by cooperating processes that take the same
//	lock; it does not prevent other processes from reading, writing or
//	deleting the file. Two handles on the same path conflict even within a
//	single process.
//
// Related Packages:
//
// The osfs package (github.com/derekdreery/lockfile/lib/fs/osfs) implements
// the interface on the host filesystem, using flock on unix-like systems and
// LockFileEx on Windows.
//
// The memfs package (github.com/derekdreery/lockfile/lib/fs/memfs) is an
// in-memory implementation intended for tests.
//
// The testing package (github.com/derekdreery/lockfile/lib/fs/testing)
// provides a conformance suite that validates implementations against the
// contracts described above:
//   - RunFileSystemTests: Runs a standardized test suite to validate implementations
package fs
