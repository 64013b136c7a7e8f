package reconcile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dirlink/pkg/errors"
	"github.com/arthur-debert/dirlink/pkg/filesystem"
	"github.com/arthur-debert/dirlink/pkg/logging"
	"github.com/arthur-debert/dirlink/pkg/types"
	"github.com/rs/zerolog"
)

// Options tunes how the Reconciler merges and names conflicts
type Options struct {
	// FileSuffix and DirSuffix name renamed-aside conflict entries
	FileSuffix string
	DirSuffix  string

	// CompareMaxBytes caps the duplicate check; 0 compares files of any size
	CompareMaxBytes int64

	// DryRun reports the planned action instead of applying it
	DryRun bool
}

// Reconciler links Targets to their durable Sources
type Reconciler struct {
	fs     types.FS
	opts   Options
	logger zerolog.Logger
}

// New creates a Reconciler. A nil fs uses the OS filesystem.
func New(fs types.FS, opts Options) *Reconciler {
	if fs == nil {
		fs = filesystem.NewOS()
	}
	if opts.FileSuffix == "" {
		opts.FileSuffix = DefaultFileSuffix
	}
	if opts.DirSuffix == "" {
		opts.DirSuffix = DefaultDirSuffix
	}
	return &Reconciler{
		fs:     fs,
		opts:   opts,
		logger: logging.GetLogger("reconcile"),
	}
}

// ReconcileAll reconciles units in order. Warnings are recorded in the
// summary and do not stop the run; the first fatal error does. ctx is only
// checked between units.
func (r *Reconciler) ReconcileAll(ctx context.Context, units []types.Unit) (*types.Summary, error) {
	summary := &types.Summary{DryRun: r.opts.DryRun}
	done := logging.LogOperationStart(r.logger, "reconcile-all")
	defer done()

	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			return summary, errors.Wrapf(err, errors.ErrCanceled, "stopped before unit %s", unit.Label()).
				WithDetail("unit", unit.Label())
		}

		result, err := r.Reconcile(unit)
		if err != nil {
			return summary, errors.Annotate(err, "unit", unit.Label())
		}
		summary.Record(result)
	}
	return summary, nil
}

// Reconcile applies the link table to one unit
func (r *Reconciler) Reconcile(unit types.Unit) (types.Result, error) {
	if r.opts.DryRun {
		return r.Plan(unit)
	}
	unit, err := normalizeUnit(unit)
	if err != nil {
		return types.Result{Unit: unit}, err
	}

	logger := r.logger.With().
		Str("unit", unit.Label()).
		Str("target", unit.Target).
		Str("source", unit.Source).
		Logger()

	obs, err := Observe(r.fs, unit)
	if err != nil {
		return types.Result{Unit: unit}, err
	}

	result := types.Result{
		Unit:   unit,
		State:  obs.State,
		Action: types.ActionFor(obs.State),
	}

	if obs.State == types.StateDirectory {
		if err := r.checkDistinct(unit); err != nil {
			return result, err
		}
	}

	if err := r.ensureDirs(unit); err != nil {
		return result, err
	}

	switch obs.State {
	case types.StateLinked:
		result.Outcome = types.OutcomeLinked
		result.Message = types.MsgAlreadyLinked

	case types.StateStaleLink:
		if err := r.fs.Remove(unit.Target); err != nil {
			return result, errors.Wrapf(err, errors.ErrRemove, "failed to remove stale link %s", unit.Target).
				WithDetail("path", unit.Target)
		}
		if err := r.link(unit); err != nil {
			return result, err
		}
		result.Outcome = types.OutcomeLinked
		result.PrevLink = obs.LinkDest
		result.Message = fmt.Sprintf(types.MsgReplacedStale, obs.LinkDest)

	case types.StateMissing:
		if err := r.link(unit); err != nil {
			return result, err
		}
		result.Outcome = types.OutcomeLinked
		result.Message = types.MsgCreatedLink

	case types.StateDirectory:
		stats, err := r.Merge(unit.Target, unit.Source)
		result.Merge = stats
		if err != nil {
			return result, err
		}

		remaining, err := r.fs.ReadDir(unit.Target)
		if err != nil {
			return result, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", unit.Target).
				WithDetail("path", unit.Target)
		}
		if len(remaining) > 0 {
			result.Outcome = types.OutcomeWarning
			result.Reason = types.ReasonNotEmptied
			result.Message = types.MsgWarnNotEmptied
			break
		}

		if err := r.fs.Remove(unit.Target); err != nil {
			return result, errors.Wrapf(err, errors.ErrRemove, "failed to remove emptied target %s", unit.Target).
				WithDetail("path", unit.Target)
		}
		if err := r.link(unit); err != nil {
			return result, err
		}
		result.Outcome = types.OutcomeLinked
		result.Message = types.MsgMergedAndLinked

	default:
		result.Outcome = types.OutcomeWarning
		result.Reason = types.ReasonIncompatibleFile
		result.Message = types.MsgWarnIncompatible
	}

	if result.Linked() {
		if err := r.ensureSubdirs(unit); err != nil {
			return result, err
		}
		logger.Info().
			Str("state", string(result.State)).
			Int("moved", result.Merge.Moved).
			Int("duplicates", result.Merge.Duplicates).
			Int("conflicts", len(result.Merge.Conflicts)).
			Msg(result.Message)
	} else {
		logger.Warn().
			Str("state", string(result.State)).
			Str("reason", string(result.Reason)).
			Strs("leftovers", result.Merge.Leftovers).
			Msg(result.Message)
	}
	return result, nil
}

// Plan observes the unit and reports what Reconcile would do, without
// touching the filesystem
func (r *Reconciler) Plan(unit types.Unit) (types.Result, error) {
	unit, err := normalizeUnit(unit)
	if err != nil {
		return types.Result{Unit: unit}, err
	}

	obs, err := Observe(r.fs, unit)
	if err != nil {
		return types.Result{Unit: unit}, err
	}
	if obs.State == types.StateDirectory {
		if err := r.checkDistinct(unit); err != nil {
			return types.Result{Unit: unit, State: obs.State, Action: types.ActionFor(obs.State)}, err
		}
	}

	result := types.Result{
		Unit:    unit,
		State:   obs.State,
		Action:  types.ActionFor(obs.State),
		Outcome: types.OutcomePlanned,
	}

	switch obs.State {
	case types.StateLinked:
		result.Outcome = types.OutcomeLinked
		result.Message = types.MsgAlreadyLinked
	case types.StateStaleLink:
		result.PrevLink = obs.LinkDest
		result.Message = fmt.Sprintf(types.MsgPlanRelink, obs.LinkDest)
	case types.StateMissing:
		result.Message = types.MsgPlanCreate
	case types.StateDirectory:
		result.Message = types.MsgPlanMerge
	default:
		result.Outcome = types.OutcomeWarning
		result.Reason = types.ReasonIncompatibleFile
		result.Message = types.MsgWarnIncompatible
	}
	return result, nil
}

// ensureDirs creates Source and Target's parent
func (r *Reconciler) ensureDirs(unit types.Unit) error {
	for _, dir := range []string{unit.Source, filepath.Dir(unit.Target)} {
		if err := r.fs.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir).
				WithDetail("path", dir)
		}
	}
	return nil
}

func (r *Reconciler) ensureSubdirs(unit types.Unit) error {
	for _, sub := range unit.Subdirs {
		dir := filepath.Join(unit.Source, sub)
		if err := r.fs.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir).
				WithDetail("path", dir)
		}
	}
	return nil
}

func (r *Reconciler) link(unit types.Unit) error {
	source := filepath.Clean(unit.Source)
	if err := r.fs.Symlink(source, unit.Target); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s to %s", unit.Target, source).
			WithDetail("path", unit.Target)
	}
	return nil
}

// checkDistinct rejects a Source that is the Target directory itself, for
// instance a Source path that is a symlink to Target
func (r *Reconciler) checkDistinct(unit types.Unit) error {
	targetInfo, err := r.fs.Stat(unit.Target)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect target %s", unit.Target).
			WithDetail("path", unit.Target)
	}
	sourceInfo, err := r.fs.Stat(unit.Source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect source %s", unit.Source).
			WithDetail("path", unit.Source)
	}

	if os.SameFile(targetInfo, sourceInfo) {
		return errors.Newf(errors.ErrUnitInvalid, "unit %s: source %s is the same directory as target %s", unit.Label(), unit.Source, unit.Target).
			WithDetail("unit", unit.Label()).
			WithDetail("path", unit.Source)
	}
	return nil
}

// normalizeUnit cleans both paths and rejects pairs that would merge a
// directory into itself
func normalizeUnit(unit types.Unit) (types.Unit, error) {
	if unit.Target == "" || unit.Source == "" {
		return unit, errors.Newf(errors.ErrUnitInvalid, "unit %s needs both target and source", unit.Label()).
			WithDetail("unit", unit.Label())
	}

	unit.Target = filepath.Clean(unit.Target)
	unit.Source = filepath.Clean(unit.Source)
	rel, err := filepath.Rel(unit.Target, unit.Source)
	if err == nil && (rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))) {
		return unit, errors.Newf(errors.ErrUnitInvalid, "unit %s: source %s must not be inside target %s", unit.Label(), unit.Source, unit.Target).
			WithDetail("unit", unit.Label())
	}
	return unit, nil
}
