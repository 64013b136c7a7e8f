package status

import (
	"github.com/arthur-debert/dirlink/pkg/commands/internal"
	"github.com/arthur-debert/dirlink/pkg/config"
	"github.com/arthur-debert/dirlink/pkg/errors"
	"github.com/arthur-debert/dirlink/pkg/logging"
	"github.com/arthur-debert/dirlink/pkg/types"
)

// StatusOptions defines the options for the StatusUnits command
type StatusOptions struct {
	Config *config.Config
	FS     types.FS
}

// StatusUnits observes every configured unit and reports what link would do
// with it. Nothing is modified.
func StatusUnits(opts StatusOptions) (*types.Summary, error) {
	log := logging.GetLogger("commands.status")
	log.Debug().Str("command", "StatusUnits").Msg("Executing command")

	setup, err := internal.Prepare(opts.Config, opts.FS, true)
	if err != nil {
		return nil, err
	}

	summary := &types.Summary{DryRun: true}
	for _, unit := range setup.Units {
		result, err := setup.Reconciler.Plan(unit)
		if err != nil {
			return summary, errors.Annotate(err, "unit", unit.Label())
		}
		log.Debug().
			Str("unit", unit.Label()).
			Str("state", string(result.State)).
			Str("action", string(result.Action)).
			Msg("Observed unit")
		summary.Record(result)
	}
	return summary, nil
}
