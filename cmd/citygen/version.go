package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"citygen/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("citygen version %s\n", version.Version)
	},
}
