package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Settings are the tool-level options resolved once per invocation.
type Settings struct {
	Workspace string `mapstructure:"workspace"`
	Git       string `mapstructure:"git"`
	Shell     string `mapstructure:"shell"`
	Verbose   bool   `mapstructure:"verbose"`
}

// newViper wires defaults, GRIT_* environment variables and the persistent
// flags of root into a fresh viper instance.
func newViper(root *cobra.Command) *viper.Viper {
	v := viper.New()
	v.SetDefault("workspace", "")
	v.SetDefault("git", "git")
	v.SetDefault("shell", "sh")
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("grit")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	_ = v.BindPFlag("workspace", root.PersistentFlags().Lookup("workspace"))
	_ = v.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	return v
}

// loadSettings reads the optional user settings file and resolves the
// workspace root to an absolute path, defaulting to the current directory.
func loadSettings(v *viper.Viper, settingsFile string) (Settings, error) {
	configured := true
	if settingsFile != "" {
		v.SetConfigFile(settingsFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "grit"))
		v.SetConfigName("settings")
		v.SetConfigType("yaml")
	} else {
		configured = false
	}

	if configured {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if settingsFile != "" || !errors.As(err, &notFound) {
				return Settings{}, fmt.Errorf("reading settings: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}

	if s.Workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Settings{}, fmt.Errorf("failed to get current directory: %w", err)
		}
		s.Workspace = wd
	}
	abs, err := filepath.Abs(s.Workspace)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to resolve workspace: %w", err)
	}
	s.Workspace = abs
	return s, nil
}
