package lockfile_test

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/VictoriaMetrics/metrics"
	"github.com/derekdreery/lockfile/lib/fs"
	"github.com/derekdreery/lockfile/lib/fs/memfs"
	"github.com/derekdreery/lockfile/lib/fs/osfs"
	"github.com/derekdreery/lockfile/lib/lockfile"
	"github.com/hashicorp/go-hclog"
)

// factory creates a lock manager under test together with a writable root
// directory for lock paths.
type factory func(t *testing.T) (manager lockfile.ILockManager, root string)

func memFactory(opts ...lockfile.Option) factory {
	return func(t *testing.T) (lockfile.ILockManager, string) {
		filesystem := memfs.New()
		if err := filesystem.MkdirAll("/locks", 0o755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		return lockfile.NewLockManager(filesystem, opts...), "/locks"
	}
}

func osFactory() factory {
	return func(t *testing.T) (lockfile.ILockManager, string) {
		return lockfile.NewLockManager(osfs.New()), t.TempDir()
	}
}

func TestManagers(t *testing.T) {
	runLockManagerTests(t, "Memory", memFactory())
	runLockManagerTests(t, "OS", osFactory())
}

// runLockManagerTests exercises the ILockManager contract independent of the
// filesystem backing it.
func runLockManagerTests(t *testing.T, name string, factory factory) {
	t.Run(name, func(t *testing.T) {
		t.Run("CreateAndRelease", func(t *testing.T) {
			manager, root := factory(t)
			path := filepath.Join(root, "a.lock")

			lock, err := manager.Create(path)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if lock.Path() != path {
				t.Errorf("Path() = %q, want %q", lock.Path(), path)
			}
			if err := lock.Release(); err != nil {
				t.Errorf("Release failed: %v", err)
			}
		})

		t.Run("Contention", func(t *testing.T) {
			manager, root := factory(t)
			path := filepath.Join(root, "a.lock")

			lock, err := manager.Create(path)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			defer lock.Release()

			_, err = manager.Create(path)
			if !errors.Is(err, lockfile.ErrAlreadyLocked) {
				t.Errorf("expected ErrAlreadyLocked, got %v", err)
			}
		})

		t.Run("MissingParent", func(t *testing.T) {
			manager, root := factory(t)
			path := filepath.Join(root, "missing", "a.lock")

			_, err := manager.Create(path)
			if !errors.Is(err, lockfile.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("CreateWithParents", func(t *testing.T) {
			manager, root := factory(t)
			path := filepath.Join(root, "missing", "deeper", "a.lock")

			lock, err := manager.CreateWithParents(path)
			if err != nil {
				t.Fatalf("CreateWithParents failed: %v", err)
			}
			if err := lock.Release(); err != nil {
				t.Fatalf("Release failed: %v", err)
			}

			// The created directories stay; a plain Create now succeeds.
			lock, err = manager.Create(path)
			if err != nil {
				t.Fatalf("Create below created parents failed: %v", err)
			}
			if err := lock.Release(); err != nil {
				t.Errorf("Release failed: %v", err)
			}
		})

		t.Run("ReleaseFreesPath", func(t *testing.T) {
			manager, root := factory(t)
			path := filepath.Join(root, "a.lock")

			// Acquire, release, acquire again: no residual lock state.
			for i := 0; i < 3; i++ {
				lock, err := manager.Create(path)
				if err != nil {
					t.Fatalf("round %d: Create failed: %v", i, err)
				}
				if err := lock.Release(); err != nil {
					t.Fatalf("round %d: Release failed: %v", i, err)
				}
			}
		})

		t.Run("DoubleRelease", func(t *testing.T) {
			manager, root := factory(t)
			path := filepath.Join(root, "a.lock")

			lock, err := manager.Create(path)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if err := lock.Release(); err != nil {
				t.Fatalf("first Release failed: %v", err)
			}
			if err := lock.Release(); err != nil {
				t.Errorf("second Release should be a no-op, got %v", err)
			}
			if err := lock.Close(); err != nil {
				t.Errorf("Close after Release should be a no-op, got %v", err)
			}
		})

		t.Run("With", func(t *testing.T) {
			manager, root := factory(t)
			path := filepath.Join(root, "a.lock")

			ran := false
			err := manager.With(path, func() error {
				ran = true
				// The lock is held while fn runs.
				if _, err := manager.Create(path); !errors.Is(err, lockfile.ErrAlreadyLocked) {
					t.Errorf("expected ErrAlreadyLocked inside With, got %v", err)
				}
				return nil
			})
			if err != nil {
				t.Fatalf("With failed: %v", err)
			}
			if !ran {
				t.Fatal("With did not run fn")
			}

			// And released afterwards.
			lock, err := manager.Create(path)
			if err != nil {
				t.Fatalf("Create after With failed: %v", err)
			}
			lock.Release()
		})

		t.Run("WithPropagatesError", func(t *testing.T) {
			manager, root := factory(t)
			path := filepath.Join(root, "a.lock")

			sentinel := errors.New("boom")
			if err := manager.With(path, func() error { return sentinel }); !errors.Is(err, sentinel) {
				t.Errorf("expected fn error back, got %v", err)
			}

			// Released despite the error.
			lock, err := manager.Create(path)
			if err != nil {
				t.Fatalf("Create after failed With: %v", err)
			}
			lock.Release()
		})

		t.Run("HandleIO", func(t *testing.T) {
			manager, root := factory(t)
			path := filepath.Join(root, "a.lock")

			lock, err := manager.Create(path)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			defer lock.Release()

			if _, err := io.WriteString(lock, "holder diagnostics"); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if _, err := lock.Seek(0, io.SeekStart); err != nil {
				t.Fatalf("Seek failed: %v", err)
			}
			content, err := io.ReadAll(lock)
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if string(content) != "holder diagnostics" {
				t.Errorf("read back %q", content)
			}
		})

		t.Run("ReleasedHandleIO", func(t *testing.T) {
			manager, root := factory(t)
			path := filepath.Join(root, "a.lock")

			lock, err := manager.Create(path)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if err := lock.Release(); err != nil {
				t.Fatalf("Release failed: %v", err)
			}

			if _, err := lock.Write([]byte("x")); err == nil {
				t.Error("expected Write on released Lockfile to fail")
			}
			if _, err := lock.Read(make([]byte, 1)); err == nil {
				t.Error("expected Read on released Lockfile to fail")
			}
			if _, err := lock.Seek(0, io.SeekStart); err == nil {
				t.Error("expected Seek on released Lockfile to fail")
			}
		})
	})
}

// --------------------------------------------------------------------------
// Error taxonomy
// --------------------------------------------------------------------------

func TestErrorClassification(t *testing.T) {
	manager, root := memFactory()(t)

	_, err := manager.Create(filepath.Join(root, "missing", "a.lock"))
	var lockErr *lockfile.Error
	if !errors.As(err, &lockErr) {
		t.Fatalf("expected *lockfile.Error, got %T", err)
	}
	if lockErr.Code != lockfile.RetCNotFound {
		t.Errorf("Code = %v, want RetCNotFound", lockErr.Code)
	}
	if lockErr.Unwrap() == nil {
		t.Error("expected a wrapped underlying error")
	}
	if !strings.Contains(lockErr.Error(), "NotFound") {
		t.Errorf("message %q should name the error class", lockErr.Error())
	}

	lock, err := manager.Create(filepath.Join(root, "held.lock"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer lock.Release()

	_, err = manager.Create(filepath.Join(root, "held.lock"))
	if !errors.Is(err, lockfile.ErrAlreadyLocked) {
		t.Errorf("expected ErrAlreadyLocked, got %v", err)
	}
	if errors.Is(err, lockfile.ErrNotFound) {
		t.Error("AlreadyLocked must not match ErrNotFound")
	}
	if !errors.Is(err, fs.ErrLockHeld) {
		t.Error("expected the fs-level cause to stay in the chain")
	}
}

// --------------------------------------------------------------------------
// Observers
// --------------------------------------------------------------------------

// recordingObserver captures events for assertions.
type recordingObserver struct {
	mu        sync.Mutex
	acquired  []string
	released  []string
	contended []string
}

func (o *recordingObserver) Acquired(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.acquired = append(o.acquired, path)
}

func (o *recordingObserver) Released(path string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.released = append(o.released, path)
}

func (o *recordingObserver) Contended(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.contended = append(o.contended, path)
}

func TestObserverEvents(t *testing.T) {
	observer := &recordingObserver{}
	manager, root := memFactory(lockfile.WithObserver(observer))(t)
	path := filepath.Join(root, "a.lock")

	lock, err := manager.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := manager.Create(path); !errors.Is(err, lockfile.ErrAlreadyLocked) {
		t.Fatalf("expected contention, got %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	if len(observer.acquired) != 1 || observer.acquired[0] != path {
		t.Errorf("acquired events = %v", observer.acquired)
	}
	if len(observer.contended) != 1 || observer.contended[0] != path {
		t.Errorf("contended events = %v", observer.contended)
	}
	if len(observer.released) != 1 || observer.released[0] != path {
		t.Errorf("released events = %v", observer.released)
	}
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "lockfile-test",
		Level:  hclog.Debug,
		Output: &buf,
	})
	manager, root := memFactory(lockfile.WithObserver(lockfile.NewLogObserver(logger)))(t)

	lock, err := manager.Create(filepath.Join(root, "a.lock"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	logged := buf.String()
	if !strings.Contains(logged, "lockfile acquired") {
		t.Errorf("missing acquisition event in log output: %q", logged)
	}
	if !strings.Contains(logged, "lockfile released") {
		t.Errorf("missing release event in log output: %q", logged)
	}
}

func TestMetricsObserver(t *testing.T) {
	set := metrics.NewSet()
	observer := lockfile.NewMetricsObserver(set)
	manager, root := memFactory(lockfile.WithObserver(observer))(t)
	path := filepath.Join(root, "a.lock")

	lock, err := manager.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := manager.Create(path); !errors.Is(err, lockfile.ErrAlreadyLocked) {
		t.Fatalf("expected contention, got %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	var buf bytes.Buffer
	set.WritePrometheus(&buf)
	exported := buf.String()
	for _, want := range []string{
		"lockfile_acquired_total 1",
		"lockfile_contended_total 1",
		"lockfile_released_total 1",
	} {
		if !strings.Contains(exported, want) {
			t.Errorf("missing %q in exported metrics:\n%s", want, exported)
		}
	}
}

func TestMultiObserver(t *testing.T) {
	first := &recordingObserver{}
	second := &recordingObserver{}
	manager, root := memFactory(lockfile.WithObserver(lockfile.NewMultiObserver(first, second)))(t)

	lock, err := manager.Create(filepath.Join(root, "a.lock"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	if len(first.acquired) != 1 || len(second.acquired) != 1 {
		t.Errorf("both observers should see the acquisition: %d, %d",
			len(first.acquired), len(second.acquired))
	}
}
