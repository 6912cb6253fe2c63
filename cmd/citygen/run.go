package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"citygen/pkg/artifact"
	"citygen/pkg/catalog"
	"citygen/pkg/config"
	"citygen/pkg/failures"
	"citygen/pkg/generation"
	"citygen/pkg/journal"
	"citygen/pkg/llm/gemini"
	"citygen/pkg/llm/prompts"
	"citygen/pkg/logging"
	"citygen/pkg/orchestrator"
	"citygen/pkg/part"
	"citygen/pkg/tracker"
	"citygen/pkg/version"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate the missing parts for every city in range",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return run(ctx, cfg)
	},
}

func init() {
	addRangeFlags(runCmd)
}

func run(ctx context.Context, cfg *config.Config) error {
	cleanupLogs, err := logging.Init(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("citygen started", "version", version.Version, "config", configPath)

	if err := cfg.RequireCredential(); err != nil {
		return err
	}

	cat, err := catalog.Load(cfg.Input)
	if err != nil {
		return err
	}
	rng := selectRange(cfg)
	records, err := cat.Select(rng)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		slog.Warn("No cities in range", "range", rng.String(), "catalog", cfg.Input, "catalog_size", cat.Len())
		return nil
	}

	layout := artifact.Layout{Root: cfg.Output}
	fl, err := failures.Load(layout.FailureLogPath())
	if err != nil {
		return err
	}

	pm, err := newPromptManager(cfg.Prompts)
	if err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}

	tr := tracker.New()
	client, err := gemini.NewClient(cfg.LLM, cfg.Log.Gemini.Path, tr)
	if err != nil {
		return err
	}
	defer client.Close()

	rec, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer rec.Close()

	runner := orchestrator.New(cfg, orchestrator.Deps{
		Generator: generation.New(client, cfg.Jitter.Retry),
		Prompts:   pm,
		Failures:  fl,
		Journal:   rec,
		Tracker:   tr,
		Sampler:   part.RandomSampler{},
	})

	summary, err := runner.Run(ctx, records)
	printSummary(summary, tr)

	if errors.Is(err, context.Canceled) {
		fmt.Println("Interrupted. Run again to continue where this run stopped.")
		return nil
	}
	return err
}

func newPromptManager(cfg config.PromptsConfig) (*prompts.Manager, error) {
	if cfg.Dir != "" {
		return prompts.NewDirManager(cfg.Dir)
	}
	return prompts.NewDefaultManager()
}

func printSummary(s orchestrator.Summary, tr *tracker.Tracker) {
	fmt.Printf("\nRun Summary (%d cities)\n", s.Records)
	fmt.Printf("=====================\n")
	for _, k := range part.Kinds() {
		st := s.PartStats(k)
		fmt.Printf("  %-22s generated: %3d  skipped: %3d  failed: %3d  attempts: %3d\n",
			k.String(), st.Generated, st.Skipped, st.Failed, st.Attempts)
	}
	api := tr.Snapshot()["gemini"]
	fmt.Printf("  %-22s ok: %d  errors: %d\n", "Gemini calls", api.APISuccess, api.APIFailures)
}
