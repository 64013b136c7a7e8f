package reconcile

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/dirlink/pkg/errors"
	"github.com/arthur-debert/dirlink/pkg/filesystem"
	"github.com/arthur-debert/dirlink/pkg/types"
)

// Merge folds every entry of targetDir into sourceDir so that targetDir can
// be removed. Entries are visited once, from a listing taken before any
// change. Nothing is overwritten and nothing is deleted unless it is a
// verified duplicate. Entries that could not be emptied are reported in
// MergeStats.Leftovers.
func (r *Reconciler) Merge(targetDir, sourceDir string) (types.MergeStats, error) {
	var stats types.MergeStats

	entries, err := r.fs.ReadDir(targetDir)
	if err != nil {
		return stats, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", targetDir).
			WithDetail("path", targetDir)
	}

	for _, entry := range entries {
		item := filepath.Join(targetDir, entry.Name())
		dest := filepath.Join(sourceDir, entry.Name())

		itemStats, err := r.mergeEntry(item, dest, sourceDir)
		stats.Add(itemStats)
		if err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (r *Reconciler) mergeEntry(item, dest, sourceDir string) (types.MergeStats, error) {
	var stats types.MergeStats

	itemInfo, err := r.fs.Lstat(item)
	if err != nil {
		return stats, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", item).
			WithDetail("path", item)
	}

	destInfo, err := r.fs.Lstat(dest)
	destExists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return stats, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", dest).
			WithDetail("path", dest)
	}

	// One file reached from both sides is not a duplicate: removing the
	// Target entry would remove the Source entry too
	if destExists && os.SameFile(itemInfo, destInfo) {
		r.logger.Warn().Str("path", item).Str("source", dest).Msg("Entry is the same file as its source counterpart, leaving it in place")
		stats.Leftovers = append(stats.Leftovers, item)
		return stats, nil
	}

	if !destExists {
		if err := r.move(item, dest); err != nil {
			return stats, err
		}
		r.logger.Debug().Str("from", item).Str("to", dest).Msg("Moved entry into source")
		stats.Moved++
		return stats, nil
	}

	// Symlinks are never followed on either side: a link in Source is not a
	// directory to merge into, and a link in Target is an entry to move.
	if itemInfo.IsDir() {
		if destInfo.IsDir() {
			return r.mergeSubdir(item, dest)
		}
		return stats, r.renameAside(item, sourceDir, r.opts.DirSuffix, &stats)
	}

	if itemInfo.Mode().IsRegular() && destInfo.Mode().IsRegular() {
		same, err := SameContent(r.fs, item, dest, r.opts.CompareMaxBytes)
		if err != nil {
			r.logger.Warn().Err(err).Str("path", item).Msg("Could not compare files, keeping both")
		}
		if same {
			if err := r.fs.Remove(item); err != nil {
				return stats, errors.Wrapf(err, errors.ErrRemove, "failed to remove duplicate %s", item).
					WithDetail("path", item)
			}
			r.logger.Debug().Str("path", item).Str("kept", dest).Msg("Removed verified duplicate")
			stats.Duplicates++
			return stats, nil
		}
	}

	return stats, r.renameAside(item, sourceDir, r.opts.FileSuffix, &stats)
}

// mergeSubdir merges two same-named directories and removes the Target side
// once it is empty
func (r *Reconciler) mergeSubdir(item, dest string) (types.MergeStats, error) {
	stats, err := r.Merge(item, dest)
	if err != nil {
		return stats, err
	}

	remaining, err := r.fs.ReadDir(item)
	if err != nil {
		return stats, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", item).
			WithDetail("path", item)
	}
	if len(remaining) > 0 {
		r.logger.Warn().Str("path", item).Int("entries", len(remaining)).Msg("Directory not emptied by merge, leaving it in place")
		stats.Leftovers = append(stats.Leftovers, item)
		return stats, nil
	}

	if err := r.fs.Remove(item); err != nil {
		return stats, errors.Wrapf(err, errors.ErrRemove, "failed to remove merged directory %s", item).
			WithDetail("path", item)
	}
	stats.Merged++
	return stats, nil
}

// renameAside moves item into sourceDir under a free conflict name
func (r *Reconciler) renameAside(item, sourceDir, suffix string, stats *types.MergeStats) error {
	conflict, err := ConflictPath(r.fs, sourceDir, filepath.Base(item), suffix)
	if err != nil {
		return err
	}
	if err := r.move(item, conflict); err != nil {
		return err
	}
	r.logger.Info().Str("path", item).Str("conflict", conflict).Msg("Kept conflicting entry under a new name")
	stats.Conflicts = append(stats.Conflicts, conflict)
	return nil
}

func (r *Reconciler) move(from, to string) error {
	if err := filesystem.Move(r.fs, from, to); err != nil {
		return errors.Wrapf(err, errors.ErrFileMove, "failed to move %s to %s", from, to).
			WithDetail("path", from).
			WithDetail("destination", to)
	}
	return nil
}
