package link

import (
	"context"

	"github.com/arthur-debert/dirlink/pkg/commands/internal"
	"github.com/arthur-debert/dirlink/pkg/config"
	"github.com/arthur-debert/dirlink/pkg/logging"
	"github.com/arthur-debert/dirlink/pkg/types"
)

// LinkOptions defines the options for the LinkUnits command.
type LinkOptions struct {
	// Config supplies the roots and units to reconcile.
	Config *config.Config
	// FS is the filesystem to operate on. Nil means the OS filesystem.
	FS types.FS
	// DryRun reports planned actions without making changes.
	DryRun bool
}

// LinkUnits reconciles every configured unit in order. Warnings are part of
// the returned summary; the first fatal error stops the run and is returned
// together with the results gathered so far.
func LinkUnits(ctx context.Context, opts LinkOptions) (*types.Summary, error) {
	log := logging.GetLogger("commands.link")
	log.Debug().Str("command", "LinkUnits").Bool("dry_run", opts.DryRun).Msg("Executing command")

	setup, err := internal.Prepare(opts.Config, opts.FS, opts.DryRun)
	if err != nil {
		return nil, err
	}

	summary, err := setup.Reconciler.ReconcileAll(ctx, setup.Units)
	if err != nil {
		log.Error().Err(err).Msg("Link failed")
		return summary, err
	}

	log.Info().
		Str("command", "LinkUnits").
		Int("linked", summary.Linked).
		Int("warnings", summary.Warnings).
		Msg("Command finished")
	return summary, nil
}
