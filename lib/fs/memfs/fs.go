package memfs

import (
	"os"
	"path/filepath"

	"github.com/derekdreery/lockfile/lib/fs"
	"github.com/puzpuzpuz/xsync/v3"
)

type fileSystem struct {
	files *xsync.MapOf[string, *memFile]
	dirs  *xsync.MapOf[string, struct{}]
}

// New creates an empty in-memory filesystem. Only the root directory exists
// initially; parents for lock files must be created with MkdirAll, exactly
// as on a real filesystem.
func New() fs.IFileSystem {
	return &fileSystem{
		files: xsync.NewMapOf[string, *memFile](),
		dirs:  xsync.NewMapOf[string, struct{}](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see fs/interface.go)
// --------------------------------------------------------------------------

func (m *fileSystem) Name() fs.Implementation {
	return fs.ImplMemory
}

func (m *fileSystem) OpenLockFile(path string, perm os.FileMode) (fs.ILockHandle, error) {
	clean := filepath.Clean(path)
	if !m.dirExists(filepath.Dir(clean)) {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	// Two opens of the same path share one memFile, so their locks contend.
	file, _ := m.files.LoadOrCompute(clean, func() *memFile {
		return &memFile{}
	})
	return &lockHandle{file: file}, nil
}

func (m *fileSystem) MkdirAll(path string, perm os.FileMode) error {
	for p := filepath.Clean(path); !m.dirExists(p); p = filepath.Dir(p) {
		m.dirs.Store(p, struct{}{})
	}
	return nil
}

func (m *fileSystem) Remove(path string) error {
	clean := filepath.Clean(path)
	if _, ok := m.files.LoadAndDelete(clean); !ok {
		return &os.PathError{Op: "remove", Path: path, Err: os.ErrNotExist}
	}
	// Open handles keep their memFile; like on a real filesystem, removal
	// only unlinks the path.
	return nil
}

// dirExists reports whether path is a directory of this filesystem. The
// filesystem root (the fixpoint of filepath.Dir) always exists.
func (m *fileSystem) dirExists(path string) bool {
	if path == filepath.Dir(path) {
		return true
	}
	_, ok := m.dirs.Load(path)
	return ok
}
