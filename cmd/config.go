package cmd

import (
	"fmt"

	"github.com/nanaki-93/grit/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:          "config",
		Short:        "Print the effective workspace config",
		Long:         `Print the workspace config with the Root entry included unless ignore_root is set.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.registry("").Load()
			if err != nil {
				return err
			}

			effective := model.Document{
				Version:      doc.Version,
				Root:         doc.Root,
				IgnoreRoot:   doc.IgnoreRoot,
				Repositories: doc.Members(),
			}

			encoder := yaml.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent(2)
			if err := encoder.Encode(&effective); err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			return encoder.Close()
		},
	}
}
