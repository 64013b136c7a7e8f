package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"syscall"

	"github.com/arthur-debert/dirlink/pkg/types"
)

// IsCrossDevice reports whether err is the EXDEV a rename returns when
// source and destination live on different filesystems.
func IsCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

// Move renames src to dst. When the two paths are on different devices it
// falls back to copying src to dst and removing src afterwards. dst must not
// exist.
func Move(fsys types.FS, src, dst string) error {
	err := fsys.Rename(src, dst)
	if err == nil || !IsCrossDevice(err) {
		return err
	}

	if err := CopyTree(fsys, src, dst); err != nil {
		return fmt.Errorf("cross-device copy of %s: %w", src, err)
	}
	return fsys.RemoveAll(src)
}

// CopyTree copies src to dst recursively, preserving permissions and
// modification times. Symlinks are recreated, never followed. It fails if
// any destination entry already exists.
func CopyTree(fsys types.FS, src, dst string) error {
	info, err := fsys.Lstat(src)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		dest, err := fsys.Readlink(src)
		if err != nil {
			return err
		}
		return fsys.Symlink(dest, dst)
	case info.IsDir():
		if err := fsys.MkdirAll(dst, info.Mode().Perm()); err != nil {
			return err
		}
		entries, err := fsys.ReadDir(src)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := CopyTree(fsys, filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
				return err
			}
		}
		return fsys.Chtimes(dst, info.ModTime(), info.ModTime())
	default:
		return CopyFile(fsys, src, dst, info)
	}
}

// CopyFile streams a single regular file from src to a new file at dst.
func CopyFile(fsys types.FS, src, dst string, info fs.FileInfo) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := fsys.Create(dst, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return fsys.Chtimes(dst, info.ModTime(), info.ModTime())
}
