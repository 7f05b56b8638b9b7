package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/retlint/internal"
	"github.com/gnoswap-labs/retlint/lint"
)

var forceInit bool

// initCmd: retlint init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new linter configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := initConfigurationFile(cfgFile, forceInit)
		if err != nil {
			return fmt.Errorf("error initializing config file: %w", err)
		}
		fmt.Fprintf(stdout, "Configuration file created: %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing configuration file")
}

// initConfigurationFile writes a configuration listing every rule at its
// default severity and returns the path written.
func initConfigurationFile(configurationPath string, force bool) (string, error) {
	if configurationPath == "" {
		configurationPath = lint.DefaultConfigFile
	}

	if !force {
		if _, err := os.Stat(configurationPath); err == nil {
			return "", fmt.Errorf("%s already exists", configurationPath)
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}

	config := lint.Config{
		Name:  "retlint",
		Rules: internal.DefaultRules(),
	}
	d, err := yaml.Marshal(config)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(configurationPath, d, 0o644); err != nil {
		return "", err
	}
	return configurationPath, nil
}
