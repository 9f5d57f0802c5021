package sparekeys

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newGuideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: MsgGuideShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
			if err != nil {
				// Fall back to the plain markdown.
				fmt.Fprintln(cmd.OutOrStdout(), MsgGuide)
				return nil
			}
			rendered, err := renderer.Render(MsgGuide)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), MsgGuide)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
}
