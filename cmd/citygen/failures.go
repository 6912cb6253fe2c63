package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"citygen/pkg/artifact"
	"citygen/pkg/failures"
)

var failuresCmd = &cobra.Command{
	Use:   "failures",
	Short: "Show the parts that failed in previous runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		layout := artifact.Layout{Root: cfg.Output}
		fl, err := failures.Load(layout.FailureLogPath())
		if err != nil {
			return err
		}

		ids := fl.IDs()
		if len(ids) == 0 {
			fmt.Printf("No failures recorded in %s\n", fl.Path())
			return nil
		}

		fmt.Printf("%d cities with failed parts (%s)\n\n", len(ids), fl.Path())
		for _, id := range ids {
			e, _ := fl.Entry(id)
			fmt.Printf("  %-8s %-30s %s\n", id, e.CityName, strings.Join(e.FailedParts, ", "))
		}
		return nil
	},
}
