package reconcile

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arthur-debert/dirlink/pkg/errors"
	"github.com/arthur-debert/dirlink/pkg/types"
)

// Default conflict suffixes
const (
	DefaultFileSuffix = ".conflict"
	DefaultDirSuffix  = ".dir_conflict"
)

// ConflictName replaces the last extension of name with suffix:
// "a.txt" becomes "a.conflict". Names without an extension, including
// dotfiles like ".env", get the suffix appended.
func ConflictName(name, suffix string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return name + suffix
	}
	return strings.TrimSuffix(name, ext) + suffix
}

// ConflictPath returns a path inside dir, derived from name and suffix, that
// does not exist yet. Taken names get a counter: a.conflict.1, a.conflict.2.
func ConflictPath(fsys types.FS, dir, name, suffix string) (string, error) {
	base := ConflictName(name, suffix)
	candidate := filepath.Join(dir, base)

	for i := 1; ; i++ {
		_, err := fsys.Lstat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to check conflict name %s", candidate).
				WithDetail("path", candidate)
		}
		candidate = filepath.Join(dir, base+"."+strconv.Itoa(i))
	}
}
