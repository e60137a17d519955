package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddRepositoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:          "add-repository name [path]",
		Short:        "Register a repository",
		Long:         `Register the git working copy at path under name. The path defaults to name and is taken relative to the workspace root.`,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 2 {
				path = args[1]
			}

			repo, err := a.registry("").AddRepository(args[0], path)
			if err != nil {
				return fmt.Errorf("failed to add repository: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added repository %s (%s)\n", repo.Name, repo.Path)
			return nil
		},
	}
}
