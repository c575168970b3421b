package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeanthielis/relatorio-retidos/internal/config"
)

// configCmd config file helpers
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manages config.toml.",
}

// configInitCmd writes the default configuration
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Writes config.toml with the default settings.",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		force, _ := cmd.Flags().GetBool("force")
		if err := writeDefaultConfig(path, force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", path)
		return nil
	},
}

// writeDefaultConfig refuses to overwrite an existing file unless force is set
func writeDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
	}
	return config.SaveConfig(config.DefaultConfig(), path)
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
