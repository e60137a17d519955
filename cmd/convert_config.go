package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConvertConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:          "convert-config",
		Short:        "Migrate a legacy workspace config to the current format",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			converted, err := a.registry("").ConvertLegacy()
			if err != nil {
				return fmt.Errorf("failed to convert config: %w", err)
			}
			if converted {
				fmt.Fprintln(cmd.OutOrStdout(), "Config converted")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Config already up to date")
			}
			return nil
		},
	}
}
