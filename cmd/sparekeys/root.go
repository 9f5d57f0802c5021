// Package sparekeys wires the command line interface. The root command
// runs a full backup; subcommands inspect the plugins, the configuration
// and the documentation.
package sparekeys

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kalekundert/sparekeys/internal/version"
	"github.com/kalekundert/sparekeys/pkg/logging"
	"github.com/kalekundert/sparekeys/pkg/style"
)

// rootFlags holds the persistent flags shared by every command
type rootFlags struct {
	verbosity int
	dryRun    bool
	yes       bool
	quiet     bool
}

// NewRootCmd builds the sparekeys command tree
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "sparekeys",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			style.ConfigureColors()
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, MsgFlagYes)
	rootCmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, MsgFlagQuiet)

	rootCmd.AddCommand(newPluginsCmd(flags))
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newGuideCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sparekeys version %s\n", version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.Date)
		},
	}
}
