package sparekeys

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kalekundert/sparekeys/pkg/config"
	"github.com/kalekundert/sparekeys/pkg/paths"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: MsgConfigPath,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := paths.New()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.ConfigFilePath())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: MsgConfigShow,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := paths.New()
			if err != nil {
				return err
			}
			cfg, _, err := config.Load(p)
			if err != nil {
				return err
			}
			snapshot, err := config.Snapshot(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), snapshot)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: MsgConfigInit,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := paths.New()
			if err != nil {
				return err
			}
			path, err := config.EnsureConfigFile(p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return cmd
}
