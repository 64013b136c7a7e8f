package dirlink

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Keep ephemeral directories linked to durable storage"
	MsgLinkShort       = "Link every configured unit to its durable source"
	MsgStatusShort     = "Show the state of each unit without changing anything"
	MsgCopyShort       = "Copy one durable directory into another"
	MsgGenConfigShort  = "Print the effective configuration as TOML"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"

	// Status messages
	MsgCopyConfirm   = "Copy all data from '%s' to '%s'? The destination will be created if it doesn't exist."
	MsgCopyCancelled = "Operation cancelled."
	MsgCopyReminder  = "Please verify the contents of '%s'. Once confirmed, you can remove '%s' manually."
	MsgConfigWritten = "Written config file %s\n"
	MsgConfigExists  = "Config file %s already exists, not overwritten\n"
	MsgVersionFormat = "dirlink version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrNoCommand      = "no command specified"
	MsgErrLinkUnits      = "failed to link units: %w"
	MsgErrStatusUnits    = "failed to get unit status: %w"
	MsgErrCopyData       = "failed to copy data: %w"
	MsgErrGenConfig      = "failed to generate config: %w"
	MsgErrStrictWarnings = "%d unit(s) were not linked"
	MsgErrNeedConfirm    = "refusing to copy without confirmation: input is not a terminal, pass --yes"
	MsgErrPromptFailed   = "failed to read confirmation: %w"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Config file (default $DIRLINK_CONFIG, then $XDG_CONFIG_HOME/dirlink/dirlink.toml)"
	MsgFlagDryRun   = "Preview changes without executing them"
	MsgFlagStrict   = "Exit with status 2 when a unit could not be linked"
	MsgFlagFormat   = "Output format: auto, term, text, json or yaml"
	MsgFlagRoot     = "Resolve every path under this directory (for rehearsals)"
	MsgFlagYes      = "Skip the confirmation prompt"
	MsgFlagDefaults = "Print the built-in defaults instead of the effective configuration"
	MsgFlagWrite    = "Write the configuration to this file instead of stdout"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/link-long.txt
	msgLinkLongRaw string
	MsgLinkLong    = strings.TrimSpace(msgLinkLongRaw)

	//go:embed msgs/link-example.txt
	msgLinkExampleRaw string
	MsgLinkExample    = strings.TrimRight(msgLinkExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/status-example.txt
	msgStatusExampleRaw string
	MsgStatusExample    = strings.TrimRight(msgStatusExampleRaw, "\n")

	//go:embed msgs/copy-long.txt
	msgCopyLongRaw string
	MsgCopyLong    = strings.TrimSpace(msgCopyLongRaw)

	//go:embed msgs/copy-example.txt
	msgCopyExampleRaw string
	MsgCopyExample    = strings.TrimRight(msgCopyExampleRaw, "\n")

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
