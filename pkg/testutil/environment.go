// pkg/testutil/environment.go
// DEPENDENCIES: pkg/filesystem
// PURPOSE: Isolated temp-dir environments for reconciliation tests

package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dirlink/pkg/filesystem"
	"github.com/arthur-debert/dirlink/pkg/types"
)

// FileTree describes a directory tree: string values are file contents,
// FileTree values are subdirectories and Link values are symlinks.
type FileTree map[string]interface{}

// Link is a symlink entry in a FileTree
type Link string

// TestEnvironment is a sandbox with an application root (where Targets
// live) and a volume root (where Sources live)
type TestEnvironment struct {
	Root       string
	AppRoot    string
	VolumeRoot string
	FS         types.FS

	t *testing.T
}

// NewTestEnvironment creates a fresh sandbox under t.TempDir
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	root := t.TempDir()
	// Resolve macOS-style /var -> /private/var so link comparisons are exact
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	env := &TestEnvironment{
		Root:       root,
		AppRoot:    filepath.Join(root, "app"),
		VolumeRoot: filepath.Join(root, "volumes"),
		FS:         filesystem.NewOS(),
		t:          t,
	}
	env.Mkdir(env.AppRoot)
	env.Mkdir(env.VolumeRoot)
	return env
}

// Unit returns a unit whose Target is AppRoot/name and Source is VolumeRoot/name
func (env *TestEnvironment) Unit(name string) types.Unit {
	return types.Unit{
		Name:   name,
		Target: filepath.Join(env.AppRoot, name),
		Source: filepath.Join(env.VolumeRoot, name),
	}
}

// Mkdir creates a directory and its parents
func (env *TestEnvironment) Mkdir(path string) {
	env.t.Helper()
	if err := env.FS.MkdirAll(path, 0755); err != nil {
		env.t.Fatalf("Failed to create directory %s: %v", path, err)
	}
}

// WriteFile writes content to path, creating parent directories
func (env *TestEnvironment) WriteFile(path, content string) {
	env.t.Helper()
	env.Mkdir(filepath.Dir(path))
	if err := env.FS.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// Symlink creates a symlink at path pointing to dest
func (env *TestEnvironment) Symlink(dest, path string) {
	env.t.Helper()
	env.Mkdir(filepath.Dir(path))
	if err := env.FS.Symlink(dest, path); err != nil {
		env.t.Fatalf("Failed to create symlink %s: %v", path, err)
	}
}

// ReadFile returns the content at path or fails the test
func (env *TestEnvironment) ReadFile(path string) string {
	env.t.Helper()
	content, err := env.FS.ReadFile(path)
	if err != nil {
		env.t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(content)
}

// WithFileTree creates tree under base
func (env *TestEnvironment) WithFileTree(base string, tree FileTree) {
	env.t.Helper()
	env.Mkdir(base)
	createFileTree(env.t, env.FS, base, tree)
}

// Exists reports whether anything, including a dangling link, is at path
func (env *TestEnvironment) Exists(path string) bool {
	_, err := env.FS.Lstat(path)
	return err == nil
}

// IsSymlink reports whether path is a symlink
func (env *TestEnvironment) IsSymlink(path string) bool {
	info, err := env.FS.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// LinkDest returns the raw text of the symlink at path, or "" if it is not one
func (env *TestEnvironment) LinkDest(path string) string {
	dest, err := env.FS.Readlink(path)
	if err != nil {
		return ""
	}
	return dest
}

// Snapshot maps every regular file and symlink under root to its content
// (link text for symlinks), keyed by path relative to root. Links are not
// followed.
func (env *TestEnvironment) Snapshot(root string) map[string]string {
	env.t.Helper()
	snap := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		switch {
		case d.Type()&fs.ModeSymlink != 0:
			dest, err := os.Readlink(path)
			if err != nil {
				return err
			}
			snap[rel] = "-> " + dest
		case d.Type().IsRegular():
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			snap[rel] = string(content)
		}
		return nil
	})
	if err != nil {
		env.t.Fatalf("Failed to snapshot %s: %v", root, err)
	}
	return snap
}

// createFileTree recursively creates a file tree
func createFileTree(t *testing.T, fs types.FS, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := fs.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case Link:
			if err := fs.Symlink(string(v), fullPath); err != nil {
				t.Fatalf("Failed to create symlink %s: %v", fullPath, err)
			}
		case FileTree:
			if err := fs.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			createFileTree(t, fs, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}
