package cmd

import (
	"fmt"

	"github.com/nanaki-93/grit/service"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:          "list",
		Short:        "List registered repositories and their checked-out branch",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := a.registry("")
			doc, err := reg.Load()
			if err != nil {
				return err
			}

			gs := service.NewGitService(a.logger)
			out := cmd.OutOrStdout()
			for _, repo := range doc.Members() {
				dir := reg.Resolve(repo.Path)
				if !reg.IsRepository(dir) {
					fmt.Fprintf(out, "- %s: %s (missing)\n", repo.Name, repo.Path)
					continue
				}

				state, err := gs.Inspect(cmd.Context(), dir)
				switch {
				case err != nil:
					fmt.Fprintf(out, "- %s: %s (error: %v)\n", repo.Name, repo.Path, err)
				case state.Empty:
					fmt.Fprintf(out, "- %s: %s (no commits)\n", repo.Name, repo.Path)
				case state.Detached:
					fmt.Fprintf(out, "- %s: %s (detached at %s)\n", repo.Name, repo.Path, state.ShortHead())
				default:
					fmt.Fprintf(out, "- %s: %s [%s]\n", repo.Name, repo.Path, state.Branch)
				}
			}
			return nil
		},
	}
}
