// Package cmd
/*
	Copyright © 2025 Marco Andreose <andreose.marco93@gmail.com>
*/

package cmd

import (
	"fmt"
	"os"

	"github.com/nanaki-93/grit/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// app carries what every command needs once flags and settings are resolved.
type app struct {
	viper        *viper.Viper
	settingsFile string
	settings     Settings
	logger       service.Logger
}

func (a *app) registry(root string) service.RegistryService {
	if root == "" {
		root = a.settings.Workspace
	}
	return service.NewRegistry(root, a.logger)
}

func (a *app) dispatcher(cmd *cobra.Command) *service.Dispatcher {
	runner := service.NewShellRunner(a.settings.Shell, a.settings.Git, a.logger)
	return service.NewDispatcher(a.registry(""), runner, cmd.OutOrStdout(), a.logger)
}

// NewRootCmd builds the command tree. Invoked without a known subcommand,
// grit replays its arguments as a git command in every registered repository.
func NewRootCmd() *cobra.Command {
	a := &app{logger: &service.DefaultLogger{}}

	rootCmd := &cobra.Command{
		Use:   "grit [git arguments...]",
		Short: "Run git commands across every repository in a workspace",
		Long: `Grit maps independent git repositories onto one workspace and replays
a git command inside each of them, in registration order.

Any arguments that are not a grit command are handed to git, e.g.

  grit status
  grit commit -am "fix bug"`,
		Version:            version,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(a.viper, a.settingsFile)
			if err != nil {
				return err
			}
			a.settings = s
			a.logger = service.NewLoggerTo(cmd.ErrOrStderr(), s.Verbose)
			a.logger.Debug("settings resolved",
				"workspace", s.Workspace,
				"git", s.Git,
				"shell", s.Shell)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
				return cmd.Help()
			}
			if args[0] == "--version" {
				fmt.Fprintln(cmd.OutOrStdout(), versionLine())
				return nil
			}

			result, err := a.dispatcher(cmd).RunAll(cmd.Context(), args)
			if err != nil {
				return err
			}
			if len(result.Skipped) > 0 || len(result.Failed) > 0 {
				a.logger.Warn("run finished with problems",
					"skipped", result.Skipped,
					"failed", result.Failed)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringP("workspace", "w", "", "workspace root (defaults to the current directory)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&a.settingsFile, "settings", "", "settings file (default: ~/.config/grit/settings.yaml)")
	rootCmd.CompletionOptions.DisableDefaultCmd = false
	a.viper = newViper(rootCmd)

	rootCmd.AddCommand(
		newInitCmd(a),
		newAddRepositoryCmd(a),
		newAddAllCmd(a),
		newConfigCmd(a),
		newCleanConfigCmd(a),
		newConvertConfigCmd(a),
		newRemoveRepositoryCmd(a),
		newDestroyCmd(a),
		newOnCmd(a),
		newListCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
