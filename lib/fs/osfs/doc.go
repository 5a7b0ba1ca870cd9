// Package osfs implements the fs.IFileSystem capability on the host
// operating system.
//
// Implementation Details:
//
//   - Files are opened with O_RDWR|O_CREATE but without O_EXCL. The file is
//     only a token; exclusivity comes from the OS lock taken on the open
//     handle, so an existing file (for example one left behind by a crashed
//     holder) can be opened and locked without any staleness protocol.
//
//   - On unix-like systems TryLock uses flock(2) with LOCK_EX|LOCK_NB. flock
//     locks are associated with the open file description, so two separate
//     opens of the same path conflict even within a single process.
//
//   - On Windows TryLock uses LockFileEx with LOCKFILE_EXCLUSIVE_LOCK and
//     LOCKFILE_FAIL_IMMEDIATELY over the maximum byte range, which gives the
//     same whole-file, non-blocking semantics.
//
//   - Closing a handle releases any lock still held through it; the explicit
//     Unlock exists so release errors can be observed separately from close
//     errors.
//
// The locks are advisory. Processes that do not take the lock are not
// constrained in any way.
package osfs
