// pkg/testutil/failingfs.go
// DEPENDENCIES: None
// PURPOSE: Error injection on top of any types.FS

package testutil

import (
	"io"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/arthur-debert/dirlink/pkg/types"
)

// FailingFS delegates to an inner FS but returns configured errors for
// specific (operation, path) pairs. Operation names match the FS method
// names ("Rename", "Open", ...); an empty path matches every path.
type FailingFS struct {
	types.FS

	mu     sync.Mutex
	errors map[string]map[string]error
	calls  map[string]int
}

// NewFailingFS wraps inner
func NewFailingFS(inner types.FS) *FailingFS {
	return &FailingFS{
		FS:     inner,
		errors: make(map[string]map[string]error),
		calls:  make(map[string]int),
	}
}

// WithError makes op fail with err for path ("" for any path)
func (f *FailingFS) WithError(op, path string, err error) *FailingFS {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.errors[op] == nil {
		f.errors[op] = make(map[string]error)
	}
	if path != "" {
		path = filepath.Clean(path)
	}
	f.errors[op][path] = err
	return f
}

// Calls returns how many times op was invoked
func (f *FailingFS) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// MutatingCalls sums the calls of every operation that changes the tree
func (f *FailingFS) MutatingCalls() int {
	total := 0
	for _, op := range []string{"WriteFile", "Create", "Chtimes", "MkdirAll", "Symlink", "Remove", "RemoveAll", "Rename"} {
		total += f.Calls(op)
	}
	return total
}

func (f *FailingFS) check(op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++
	byPath := f.errors[op]
	if byPath == nil {
		return nil
	}
	if err, ok := byPath[filepath.Clean(path)]; ok {
		return err
	}
	return byPath[""]
}

func (f *FailingFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.check("Stat", name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}

func (f *FailingFS) Lstat(name string) (fs.FileInfo, error) {
	if err := f.check("Lstat", name); err != nil {
		return nil, err
	}
	return f.FS.Lstat(name)
}

func (f *FailingFS) ReadFile(name string) ([]byte, error) {
	if err := f.check("ReadFile", name); err != nil {
		return nil, err
	}
	return f.FS.ReadFile(name)
}

func (f *FailingFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.check("WriteFile", name); err != nil {
		return err
	}
	return f.FS.WriteFile(name, data, perm)
}

func (f *FailingFS) Open(name string) (io.ReadCloser, error) {
	if err := f.check("Open", name); err != nil {
		return nil, err
	}
	return f.FS.Open(name)
}

func (f *FailingFS) Create(name string, perm fs.FileMode) (io.WriteCloser, error) {
	if err := f.check("Create", name); err != nil {
		return nil, err
	}
	return f.FS.Create(name, perm)
}

func (f *FailingFS) Chtimes(name string, atime, mtime time.Time) error {
	if err := f.check("Chtimes", name); err != nil {
		return err
	}
	return f.FS.Chtimes(name, atime, mtime)
}

func (f *FailingFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check("MkdirAll", path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FailingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.check("ReadDir", name); err != nil {
		return nil, err
	}
	return f.FS.ReadDir(name)
}

func (f *FailingFS) Symlink(oldname, newname string) error {
	if err := f.check("Symlink", newname); err != nil {
		return err
	}
	return f.FS.Symlink(oldname, newname)
}

func (f *FailingFS) Readlink(name string) (string, error) {
	if err := f.check("Readlink", name); err != nil {
		return "", err
	}
	return f.FS.Readlink(name)
}

func (f *FailingFS) Remove(name string) error {
	if err := f.check("Remove", name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}

func (f *FailingFS) RemoveAll(path string) error {
	if err := f.check("RemoveAll", path); err != nil {
		return err
	}
	return f.FS.RemoveAll(path)
}

func (f *FailingFS) Rename(oldpath, newpath string) error {
	if err := f.check("Rename", oldpath); err != nil {
		return err
	}
	return f.FS.Rename(oldpath, newpath)
}
