// Package cmd implements the command-line interface of the lockfile
// utility. It provides a small command tree over the lockfile library.
//
// The package is organized into several subpackages:
//
//   - run: Run a command while holding an exclusive file lock
//   - check: Probe whether a lock path is currently held
//   - util: Shared utilities for configuration and observer wiring (internal use)
//
// Configuration is read from flags and from LOCKFILE_-prefixed environment
// variables, with .env and .env.local files loaded first.
//
// See lockfile -help for a list of all commands.
package cmd
