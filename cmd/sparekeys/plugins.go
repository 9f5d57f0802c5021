package sparekeys

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kalekundert/sparekeys/pkg/builtins"
	"github.com/kalekundert/sparekeys/pkg/config"
	"github.com/kalekundert/sparekeys/pkg/errors"
	"github.com/kalekundert/sparekeys/pkg/execution"
	"github.com/kalekundert/sparekeys/pkg/paths"
	"github.com/kalekundert/sparekeys/pkg/plugins"
	"github.com/kalekundert/sparekeys/pkg/style"
)

// pluginInfo is the serializable form of one plugin listing entry
type pluginInfo struct {
	Stage       string `json:"stage" yaml:"stage"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Enabled     bool   `json:"enabled" yaml:"enabled"`
}

func newPluginsCmd(flags *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: MsgPluginsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := listPlugins(flags)
			if err != nil {
				return err
			}

			switch format {
			case "table":
				rows := make([]style.PluginRow, 0, len(infos))
				for _, info := range infos {
					rows = append(rows, style.PluginRow{
						Enabled:     info.Enabled,
						Stage:       plugins.Stage(info.Stage),
						Name:        info.Name,
						Description: info.Description,
					})
				}
				out, err := style.NewTerminalRenderer().RenderPluginTable(rows)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)

			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)

			case "yaml":
				return yaml.NewEncoder(cmd.OutOrStdout()).Encode(infos)

			default:
				return errors.Newf(errors.ErrInvalidInput, "unknown format '%s'", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", MsgFlagFormat)
	return cmd
}

// listPlugins registers the built-ins and cross-references them with the
// configured enable-lists
func listPlugins(flags *rootFlags) ([]pluginInfo, error) {
	p, err := paths.New()
	if err != nil {
		return nil, err
	}
	cfg, _, err := config.Load(p)
	if err != nil {
		return nil, err
	}

	params := plugins.CurrentParams()
	reg := plugins.NewRegistry()
	if err := builtins.RegisterAll(reg, execution.NewRunner(flags.dryRun), params); err != nil {
		return nil, err
	}

	var infos []pluginInfo
	for _, stage := range plugins.Stages {
		enabled := cfg.Plugins.Enabled(stage)
		for _, plugin := range reg.Plugins(stage) {
			infos = append(infos, pluginInfo{
				Stage:       string(stage),
				Name:        plugin.Name(),
				Description: plugin.Description(),
				Enabled:     slices.Contains(enabled, plugin.Name()),
			})
		}
	}
	return infos, nil
}
