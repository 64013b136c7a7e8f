package dirlink

import (
	"fmt"
	"os"

	"github.com/arthur-debert/dirlink/internal/version"
	"github.com/arthur-debert/dirlink/pkg/config"
	"github.com/arthur-debert/dirlink/pkg/errors"
	"github.com/arthur-debert/dirlink/pkg/filesystem"
	"github.com/arthur-debert/dirlink/pkg/logging"
	"github.com/arthur-debert/dirlink/pkg/output"
	"github.com/arthur-debert/dirlink/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// annotationConfigOptional marks commands that run without a valid config
const annotationConfigOptional = "dirlink/config-optional"

// Exit codes
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitWarnings = 2
)

// app holds the global flags and the configuration loaded for a run
type app struct {
	verbosity  int
	configFile string
	dryRun     bool
	strict     bool
	format     string
	root       string

	cfg    *config.Config
	cfgErr error
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "dirlink",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	rootCmd.Annotations = map[string]string{annotationConfigOptional: "true"}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVarP(&a.configFile, "config", "c", "", MsgFlagConfig)
	flags.BoolVar(&a.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.StringVar(&a.format, "format", "auto", MsgFlagFormat)
	flags.StringVar(&a.root, "root", "", MsgFlagRoot)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newLinkCmd(a))
	rootCmd.AddCommand(newStatusCmd(a))
	rootCmd.AddCommand(newCopyCmd(a))
	rootCmd.AddCommand(newGenConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// setup loads the configuration and initializes logging. Commands marked
// config-optional keep going when the configuration is invalid and report
// the error only if they end up needing it.
func (a *app) setup(cmd *cobra.Command) error {
	a.cfg, a.cfgErr = config.Load(config.LoadOptions{File: a.configFile})

	logFile := ""
	if a.cfg != nil {
		logFile = a.cfg.Log.File
	}
	logging.SetupLoggerWithFile(a.verbosity, logFile)
	log.Debug().Str("command", cmd.Name()).Msg("Command started")

	if a.cfgErr != nil && cmd.Annotations[annotationConfigOptional] == "" {
		return a.cfgErr
	}
	return nil
}

// config returns the loaded configuration or the error that prevented it
func (a *app) config() (*config.Config, error) {
	if a.cfg == nil {
		return nil, a.cfgErr
	}
	return a.cfg, nil
}

// fs returns the filesystem commands operate on, rooted under --root when set
func (a *app) fs() types.FS {
	if a.root != "" {
		return filesystem.NewBasePathFS(a.root)
	}
	return filesystem.NewOS()
}

func (a *app) renderer(cmd *cobra.Command) (*output.Renderer, error) {
	format, err := output.ParseFormat(a.format)
	if err != nil {
		return nil, err
	}
	return output.NewRenderer(cmd.OutOrStdout(), format), nil
}

// ExitCode maps an error returned by the root command to a process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.IsErrorCode(err, errors.ErrWarnings):
		return ExitWarnings
	default:
		return ExitFailure
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       MsgVersionShort,
		GroupID:     "misc",
		Annotations: map[string]string{annotationConfigOptional: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		Annotations:           map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "man",
		Short:       MsgManShort,
		Hidden:      true,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "DIRLINK",
				Section: "1",
				Source:  "dirlink " + version.Version,
				Manual:  "dirlink manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}

// stdinIsTerminal is swapped in tests
var stdinIsTerminal = func() bool {
	return isTerminal(os.Stdin)
}
