package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"citygen/pkg/config"
	"citygen/pkg/journal"
)

var (
	historyLimit int
	historyPrune string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs from the journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		rec, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer rec.Close()

		j, ok := rec.(*journal.SQLiteJournal)
		if !ok {
			fmt.Println("Journal disabled (journal.path is empty)")
			return nil
		}

		if historyPrune != "" {
			age, err := config.ParseDuration(historyPrune)
			if err != nil {
				return fmt.Errorf("invalid --prune: %w", err)
			}
			n, err := j.Prune(cmd.Context(), age)
			if err != nil {
				return err
			}
			fmt.Printf("Pruned %d runs older than %s\n", n, historyPrune)
		}

		return printHistory(cmd.Context(), j)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to show")
	historyCmd.Flags().StringVar(&historyPrune, "prune", "", "Delete runs older than this age first (e.g. 30d)")
}

func printHistory(ctx context.Context, j *journal.SQLiteJournal) error {
	runs, err := j.RecentRuns(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	for _, r := range runs {
		status := "unfinished"
		if r.FinishedAt != nil {
			status = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		fmt.Printf("  %s  %s  range %d-%d  cities: %3d  generated: %3d  skipped: %3d  failed: %3d  (%s)\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"), r.ID[:8], r.RangeStart, r.RangeEnd,
			r.Records, r.Generated, r.Skipped, r.Failed, status)
	}
	return nil
}
