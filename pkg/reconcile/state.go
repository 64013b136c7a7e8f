package reconcile

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dirlink/pkg/errors"
	"github.com/arthur-debert/dirlink/pkg/types"
)

// Observation is what Observe found at a unit's Target
type Observation struct {
	State types.TargetState

	// LinkDest is the resolved destination when Target is a symlink
	LinkDest string
}

// Observe classifies the unit's Target without modifying anything. Target
// is cleaned first so a trailing slash never makes Lstat follow a link.
func Observe(fsys types.FS, unit types.Unit) (Observation, error) {
	target := filepath.Clean(unit.Target)

	info, err := fsys.Lstat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return Observation{State: types.StateMissing}, nil
		}
		return Observation{}, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect target %s", target).
			WithDetail("path", target)
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		raw, err := fsys.Readlink(target)
		if err != nil {
			return Observation{}, errors.Wrapf(err, errors.ErrSymlinkRead, "failed to read link %s", target).
				WithDetail("path", target)
		}
		dest := ResolveLinkDest(target, raw)
		if dest == filepath.Clean(unit.Source) {
			return Observation{State: types.StateLinked, LinkDest: dest}, nil
		}
		return Observation{State: types.StateStaleLink, LinkDest: dest}, nil
	case info.IsDir():
		return Observation{State: types.StateDirectory}, nil
	default:
		return Observation{State: types.StateFile}, nil
	}
}

// ResolveLinkDest turns the raw text of the link at linkPath into a clean
// path. Relative link text is resolved against the link's parent directory.
func ResolveLinkDest(linkPath, raw string) string {
	if !filepath.IsAbs(raw) {
		raw = filepath.Join(filepath.Dir(linkPath), raw)
	}
	return filepath.Clean(raw)
}
