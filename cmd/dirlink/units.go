package dirlink

import (
	"fmt"

	"github.com/arthur-debert/dirlink/pkg/commands"
	"github.com/arthur-debert/dirlink/pkg/errors"
	"github.com/arthur-debert/dirlink/pkg/output"
	"github.com/arthur-debert/dirlink/pkg/types"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newLinkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "link",
		Short:   MsgLinkShort,
		Long:    MsgLinkLong,
		Example: MsgLinkExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := a.renderer(cmd)
			if err != nil {
				return err
			}

			log.Info().
				Str("root", a.root).
				Bool("dry_run", a.dryRun).
				Msg("Linking units")

			summary, err := commands.LinkUnits(cmd.Context(), commands.LinkOptions{
				Config: a.cfg,
				FS:     a.fs(),
				DryRun: a.dryRun,
			})
			// Units handled before a fatal error are still reported
			if summary != nil {
				if renderErr := renderer.RenderSummary(summary); renderErr != nil {
					return renderErr
				}
			}
			if err != nil {
				return fmt.Errorf(MsgErrLinkUnits, err)
			}

			if a.strict && summary.Warnings > 0 {
				return errors.Newf(errors.ErrWarnings, MsgErrStrictWarnings, summary.Warnings)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&a.strict, "strict", false, MsgFlagStrict)
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Example: MsgStatusExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := a.renderer(cmd)
			if err != nil {
				return err
			}

			summary, err := commands.StatusUnits(commands.StatusOptions{
				Config: a.cfg,
				FS:     a.fs(),
			})
			if err != nil {
				return fmt.Errorf(MsgErrStatusUnits, err)
			}
			return renderer.RenderSummary(summary)
		},
	}
}

func newCopyCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:         "copy <from> <to>",
		Short:       MsgCopyShort,
		Long:        MsgCopyLong,
		Example:     MsgCopyExample,
		GroupID:     "core",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to := args[0], args[1]

			renderer, err := a.renderer(cmd)
			if err != nil {
				return err
			}

			if !yes {
				ok, err := confirmCopy(from, to)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), MsgCopyCancelled)
					return nil
				}
			}

			result, err := commands.CopyData(cmd.Context(), commands.CopyOptions{
				From: from,
				To:   to,
				FS:   a.fs(),
			})
			if result != nil {
				if renderErr := renderer.RenderCopy(result); renderErr != nil {
					return renderErr
				}
			}
			if err != nil {
				return fmt.Errorf(MsgErrCopyData, err)
			}

			if !renderer.Format().Structured() && !result.Empty {
				fmt.Fprintf(cmd.OutOrStdout(), MsgCopyReminder+"\n", result.To, result.From)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	return cmd
}

// confirmCopy asks before a copy. Without a terminal there is nobody to ask.
func confirmCopy(from, to string) (bool, error) {
	if !stdinIsTerminal() {
		return false, errors.New(errors.ErrInvalidInput, MsgErrNeedConfirm)
	}
	ok, err := pterm.DefaultInteractiveConfirm.
		WithDefaultText(fmt.Sprintf(MsgCopyConfirm, from, to)).
		WithDefaultValue(false).
		Show()
	if err != nil {
		return false, fmt.Errorf(MsgErrPromptFailed, err)
	}
	return ok, nil
}

func newGenConfigCmd(a *app) *cobra.Command {
	var (
		defaults bool
		write    string
	)

	cmd := &cobra.Command{
		Use:         "genconfig",
		Short:       MsgGenConfigShort,
		Long:        MsgGenConfigLong,
		GroupID:     "misc",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := commands.GenConfigOptions{Defaults: defaults, Write: write}
			if !defaults {
				cfg, err := a.config()
				if err != nil {
					return fmt.Errorf(MsgErrGenConfig, err)
				}
				opts.Config = cfg
			}

			result, err := commands.GenConfig(opts)
			if err != nil {
				return fmt.Errorf(MsgErrGenConfig, err)
			}
			return reportGenConfig(cmd, result, write)
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	cmd.Flags().StringVarP(&write, "write", "w", "", MsgFlagWrite)
	return cmd
}

func reportGenConfig(cmd *cobra.Command, result *types.GenConfigResult, write string) error {
	out := cmd.OutOrStdout()
	switch {
	case write == "":
		return output.NewRenderer(out, output.FormatText).RenderText(result.Content)
	case result.Written != "":
		fmt.Fprintf(out, MsgConfigWritten, result.Written)
	default:
		fmt.Fprintf(out, MsgConfigExists, write)
	}
	return nil
}
