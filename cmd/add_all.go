package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:          "add-all",
		Short:        "Register every git repository directly under the workspace root",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			added, err := a.registry("").AddAllDiscovered()
			if err != nil {
				return fmt.Errorf("failed to add repositories: %w", err)
			}
			for _, repo := range added {
				fmt.Fprintf(cmd.OutOrStdout(), "Added repository %s (%s)\n", repo.Name, repo.Path)
			}
			if len(added) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No repositories found")
			}
			return nil
		},
	}
}
