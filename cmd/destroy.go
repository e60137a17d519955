package cmd

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nanaki-93/grit/service"
	"github.com/spf13/cobra"
)

func newDestroyCmd(a *app) *cobra.Command {
	destroyCmd := &cobra.Command{
		Use:          "destroy [dir]",
		Short:        "Delete the workspace metadata",
		Long:         `Delete .grit from dir (defaults to the workspace) after confirmation. Repositories themselves are not touched.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := a.settings.Workspace
			if len(args) == 1 {
				target = args[0]
			}

			yes, err := cmd.Flags().GetBool("yes")
			if err != nil {
				return fmt.Errorf("failed to get yes flag: %w", err)
			}

			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Remove %s? [y/N] ", filepath.Join(target, service.MetaDir))
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			if err := a.registry(target).Destroy(); err != nil {
				return fmt.Errorf("failed to destroy workspace: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed grit workspace from %s\n", target)
			return nil
		},
	}

	destroyCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return destroyCmd
}
