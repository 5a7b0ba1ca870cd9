// Package lockfile implements advisory file-based locking. It marks a
// location in the filesystem as locked by creating a lock file there and
// taking a whole-file exclusive OS lock on it; releasing the lock deletes
// the file again.
//
// Core Functionality:
//   - Lock acquisition in two modes: Create (parent directories must exist)
//     and CreateWithParents (missing parents are created first)
//   - Explicit release with guaranteed resource cleanup, plus a GC safety
//     net for Lockfiles dropped without an explicit release
//   - A small error taxonomy (NotFound, AlreadyLocked, PermissionDenied, Io)
//     usable with errors.Is
//   - Pluggable observation of lock events (logging, metrics) with a no-op
//     default
//
// Implementation Approach:
//
//	A lock manager works against the fs.IFileSystem capability rather than
//	the os package directly, so the locking semantics can be tested on an
//	in-memory filesystem. Acquisition opens (or creates) the lock file and
//	then takes a non-blocking whole-file exclusive advisory lock on the
//	handle:
//
//	- Exclusivity comes from the OS primitive (flock on unix-like systems,
//	  LockFileEx on Windows), not from the existence of the file. A file
//	  left behind by a crashed holder carries no lock, so there is no
//	  staleness protocol and no PID bookkeeping.
//
//	- Acquisition is attempt-once. A held lock fails the attempt
//	  immediately with ErrAlreadyLocked; there are no retries, timeouts or
//	  blocking waits. Callers decide whether and when to try again.
//
//	- Release unlocks the handle, closes it and removes the lock file. Even
//	  if one of these steps fails the instance is considered released; the
//	  first error is reported but nothing is leaked.
//
// Locking Model:
//
//	The locks are advisory: they bind only cooperating processes that take
//	the same lock, and the OS does not prevent anyone else from touching
//	the file. Two Lockfile acquisitions of the same path conflict even
//	within a single process, because each acquisition opens its own handle.
//	The lock file's content is not part of the contract - the Lockfile
//	exposes Read/Write/Seek so callers may store diagnostic content, but
//	nothing in this package interprets it.
//
// Thread Safety:
//
//	Lock managers are stateless apart from their configuration and may be
//	shared freely between goroutines. A Lockfile serialises its own
//	operations internally; Release may be called from any goroutine and is
//	safe to call more than once.
//
// Usage Example:
//
//	// Acquire a lock, parent directories must already exist
//	lock, err := lockfile.Create("/tmp/myapp/main.lock")
//	if errors.Is(err, lockfile.ErrAlreadyLocked) {
//	    // Another instance is running
//	}
//	if err != nil {
//	    // Handle error
//	}
//	defer lock.Release()
//
//	// Or scope the lock to a function
//	err = lockfile.With("/tmp/myapp/main.lock", func() error {
//	    // The lock is held here
//	    return nil
//	})
//
// Observability:
//
//	Lock managers accept an observer via WithObserver. NewLogObserver logs
//	acquisition and release events, NewMetricsObserver counts them, and
//	NewMultiObserver combines observers. The default observer does nothing,
//	so a manager without instrumentation carries no logging dependency at
//	runtime.
package lockfile
