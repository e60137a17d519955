package cmd

import (
	"github.com/spf13/cobra"
)

func newOnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:                "on repo git-arguments...",
		Short:              "Run a git command in one repository",
		Args:               cobra.MinimumNArgs(2),
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatcher(cmd).RunOn(cmd.Context(), args[0], args[1:])
		},
	}
}
