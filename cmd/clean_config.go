package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCleanConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:          "clean-config",
		Short:        "Drop entries that no longer point at a git repository",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dropped, err := a.registry("").CleanMissing()
			if err != nil {
				return fmt.Errorf("failed to clean config: %w", err)
			}
			for _, repo := range dropped {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed repository %s (%s)\n", repo.Name, repo.Path)
			}
			return nil
		},
	}
}
