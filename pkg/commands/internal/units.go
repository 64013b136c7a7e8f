package internal

import (
	"github.com/arthur-debert/dirlink/pkg/config"
	"github.com/arthur-debert/dirlink/pkg/errors"
	"github.com/arthur-debert/dirlink/pkg/filesystem"
	"github.com/arthur-debert/dirlink/pkg/paths"
	"github.com/arthur-debert/dirlink/pkg/reconcile"
	"github.com/arthur-debert/dirlink/pkg/types"
)

// Setup is everything a unit-based command needs to run
type Setup struct {
	FS         types.FS
	Units      []types.Unit
	Reconciler *reconcile.Reconciler
}

// Prepare resolves the filesystem, detects roots and builds the reconciler
// from cfg. A nil fsys means the OS filesystem.
func Prepare(cfg *config.Config, fsys types.FS, dryRun bool) (*Setup, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrInvalidInput, "configuration is required")
	}
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	units, err := paths.Units(fsys, cfg)
	if err != nil {
		return nil, err
	}

	r := reconcile.New(fsys, ReconcileOptions(cfg, dryRun))
	return &Setup{FS: fsys, Units: units, Reconciler: r}, nil
}

// ReconcileOptions maps configuration onto reconciler options
func ReconcileOptions(cfg *config.Config, dryRun bool) reconcile.Options {
	return reconcile.Options{
		FileSuffix:      cfg.Conflict.FileSuffix,
		DirSuffix:       cfg.Conflict.DirSuffix,
		CompareMaxBytes: cfg.Compare.MaxBytes,
		DryRun:          dryRun,
	}
}
