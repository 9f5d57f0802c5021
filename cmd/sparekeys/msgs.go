package sparekeys

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort    = "Create and distribute encrypted backups of your credentials"
	MsgPluginsShort = "List the available plugins"
	MsgConfigShort  = "Inspect the configuration"
	MsgConfigPath   = "Print the path of the configuration file"
	MsgConfigShow   = "Print the effective configuration"
	MsgConfigInit   = "Create a configuration file with the default settings"
	MsgGuideShort   = "Display the user guide"
	MsgVersionShort = "Print version information"

	// Status messages
	MsgDryRunNotice       = "\nDRY RUN MODE - No changes were made"
	MsgDoneFormat         = "Your spare keys are ready: %s\n"
	MsgDegraded           = "Some plugins were skipped or misconfigured; the archive may be incomplete."
	MsgNotPublishedFormat = "The archive was not copied anywhere; copy it somewhere safe yourself:\n  %s"
	MsgConfirmPrompt      = "Continue? [Y/n] "
	MsgCancelled          = "cancelled by user"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Preview external commands without executing them"
	MsgFlagYes     = "Skip the confirmation prompt"
	MsgFlagQuiet   = "Suppress non-error output"
	MsgFlagFormat  = "Output format: table, json or yaml"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/guide.md
	msgGuideRaw string
	MsgGuide    = strings.TrimSpace(msgGuideRaw)
)
