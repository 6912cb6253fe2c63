package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"citygen/pkg/config"
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.GenerateDefault(configPath); err != nil {
			return fmt.Errorf("failed to generate config: %w", err)
		}
		fmt.Printf("Config file generated: %s\n", configPath)
		return nil
	},
}
