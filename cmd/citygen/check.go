package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"citygen/pkg/llm/gemini"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the Gemini key and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.RequireCredential(); err != nil {
			return err
		}

		client, err := gemini.NewClient(cfg.LLM, "", nil)
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.HealthCheck(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Gemini OK (model %s)\n", client.Model())
		return nil
	},
}
