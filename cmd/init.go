package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:          "init [dir]",
		Short:        "Create workspace metadata",
		Long:         `Create .grit/config.yml in dir (defaults to the workspace). An existing config is left untouched.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := a.settings.Workspace
			if len(args) == 1 {
				target = args[0]
			}

			created, err := a.registry(target).Initialize(target)
			if err != nil {
				return fmt.Errorf("failed to initialize workspace: %w", err)
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized grit workspace in %s\n", target)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Grit workspace already exists in %s\n", target)
			}
			return nil
		},
	}
}
