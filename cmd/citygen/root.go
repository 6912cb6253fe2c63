package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"citygen/pkg/catalog"
	"citygen/pkg/config"
)

const defaultConfigPath = "configs/citygen.yaml"

var (
	configPath string
	rangeStart int
	rangeEnd   int
)

var rootCmd = &cobra.Command{
	Use:   "citygen",
	Short: "Generate city travel content with Gemini",
	Long: `citygen walks a range of cities from a catalog file and asks Gemini for five
content parts per city: a description, children's attractions, Instagram
spots, places of power and new attractions.

Every part is written to its own JSON file. Parts already on disk are skipped,
so an interrupted run can simply be started again.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "Path to configuration file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(failuresCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

// addRangeFlags registers --start and --end on commands that select records.
func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&rangeStart, "start", 0, "First catalog id (overrides range.start)")
	cmd.Flags().IntVar(&rangeEnd, "end", 0, "Last catalog id (overrides range.end)")
}

// loadConfig loads the configuration and applies range flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	overridden := false
	if f := cmd.Flags().Lookup("start"); f != nil && f.Changed {
		cfg.Range.Start = rangeStart
		overridden = true
	}
	if f := cmd.Flags().Lookup("end"); f != nil && f.Changed {
		cfg.Range.End = rangeEnd
		overridden = true
	}
	if overridden {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func selectRange(cfg *config.Config) catalog.Range {
	return catalog.Range{Start: cfg.Range.Start, End: cfg.Range.End}
}
