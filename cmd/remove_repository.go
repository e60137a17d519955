package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveRepositoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:          "remove-repository name",
		Short:        "Deregister a repository",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.registry("").RemoveRepository(args[0])
			if err != nil {
				return fmt.Errorf("failed to remove repository: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed repository %s from grit\n", repo.Name)
			return nil
		},
	}
}
