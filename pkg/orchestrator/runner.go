// Package orchestrator drives a generation run: every selected record, every
// part in order, skipping parts whose artifact is already on disk.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"citygen/pkg/artifact"
	"citygen/pkg/catalog"
	"citygen/pkg/config"
	"citygen/pkg/failures"
	"citygen/pkg/generation"
	"citygen/pkg/journal"
	"citygen/pkg/llm/prompts"
	"citygen/pkg/part"
	"citygen/pkg/tracker"
)

// Generator produces the parsed response for one part.
type Generator interface {
	GenerateWithRetry(ctx context.Context, name, prompt string) (json.RawMessage, int)
}

// Renderer renders a named prompt template.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// Deps are the collaborators of a Runner.
type Deps struct {
	Generator Generator
	Prompts   Renderer
	Failures  *failures.Log
	Journal   journal.Recorder // optional
	Tracker   *tracker.Tracker // optional
	Sampler   part.Sampler     // optional, random by default
}

// Runner executes generation runs.
type Runner struct {
	layout   artifact.Layout
	rng      catalog.Range
	counts   map[part.Kind]int
	sample   int
	jitter   config.JitterRange
	gen      Generator
	prompts  Renderer
	failures *failures.Log
	journal  journal.Recorder
	tracker  *tracker.Tracker
	sampler  part.Sampler

	// Sleep pauses between records. Replaced in tests.
	Sleep func(ctx context.Context, d time.Duration) error
	// Float returns a value in [0, 1). Replaced in tests.
	Float func() float64
}

// Summary is the outcome of a run.
type Summary struct {
	RunID   string
	Records int
	Parts   map[part.Kind]tracker.Stats
}

// PartStats returns the counters of k.
func (s Summary) PartStats(k part.Kind) tracker.Stats {
	return s.Parts[k]
}

// Total sums the counters over all parts.
func (s Summary) Total() tracker.Stats {
	var t tracker.Stats
	for _, st := range s.Parts {
		t.Generated += st.Generated
		t.Skipped += st.Skipped
		t.Failed += st.Failed
		t.Attempts += st.Attempts
	}
	return t
}

// New creates a Runner from configuration and collaborators.
func New(cfg *config.Config, deps Deps) *Runner {
	r := &Runner{
		layout: artifact.Layout{Root: cfg.Output},
		rng:    catalog.Range{Start: cfg.Range.Start, End: cfg.Range.End},
		counts: map[part.Kind]int{
			part.Children:       cfg.Counts.Children,
			part.Instagram:      cfg.Counts.Instagram,
			part.PlacesOfPower:  cfg.Counts.PlacesOfPower,
			part.NewAttractions: cfg.Counts.NewAttractions,
		},
		sample:   cfg.Subtypes.Sample,
		jitter:   cfg.Jitter.Record,
		gen:      deps.Generator,
		prompts:  deps.Prompts,
		failures: deps.Failures,
		journal:  deps.Journal,
		tracker:  deps.Tracker,
		sampler:  deps.Sampler,
		Sleep:    generation.Sleep,
		Float:    rand.Float64,
	}
	if r.journal == nil {
		r.journal = journal.Noop{}
	}
	if r.tracker == nil {
		r.tracker = tracker.New()
	}
	if r.sampler == nil {
		r.sampler = part.RandomSampler{}
	}
	return r
}

// Layout returns the output layout of the runner.
func (r *Runner) Layout() artifact.Layout {
	return r.layout
}

// Run processes records in order. Generation failures are recorded in the
// failure log and do not stop the run; write failures do. A cancelled context
// stops the run before the next call and is returned as the error.
func (r *Runner) Run(ctx context.Context, records []catalog.Record) (Summary, error) {
	runID, err := r.journal.StartRun(ctx, r.rng.Start, r.rng.End)
	if err != nil {
		slog.Warn("Journal unavailable for this run", "error", err)
	}

	slog.Info("Starting generation run", "run_id", runID, "range", r.rng.String(), "records", len(records), "output", r.layout.Root)

	done := 0
	runErr := func() error {
		for _, rec := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			slog.Info("Processing city", "id", rec.ID, "name", rec.Name, "country", rec.Country)

			for _, k := range part.Kinds() {
				if err := r.runPart(ctx, runID, rec, k); err != nil {
					return err
				}
			}
			done++

			d := generation.Jitter(r.jitter, r.Float)
			slog.Debug("Pausing before next city", "delay", d)
			if err := r.Sleep(ctx, d); err != nil {
				return err
			}
		}
		return nil
	}()

	if err := r.journal.FinishRun(context.WithoutCancel(ctx), runID, done); err != nil {
		slog.Warn("Failed to finish journal run", "run_id", runID, "error", err)
	}

	summary := r.summary(runID, done)
	r.logSummary(summary)

	if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
		slog.Warn("Generation run interrupted", "records_done", done, "records", len(records))
	}
	return summary, runErr
}

func (r *Runner) runPart(ctx context.Context, runID string, rec catalog.Record, k part.Kind) error {
	name := k.String()
	path := r.layout.Path(rec, k.Number(), k.Slug())

	if artifact.Exists(path) {
		slog.Info("Part exists, skipping", "id", rec.ID, "part", name)
		r.tracker.TrackSkipped(name)
		r.record(ctx, runID, rec, k, 0, journal.OutcomeSkipped)
		return nil
	}

	prompt, err := r.render(rec, k)
	if err != nil {
		return fmt.Errorf("record %s %s: %w", rec.ID, name, err)
	}

	slog.Info("Generating part", "id", rec.ID, "part", name)
	doc, attempts := r.gen.GenerateWithRetry(ctx, name, prompt)
	r.tracker.TrackAttempts(name, attempts)

	if doc == nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		return r.fail(ctx, runID, rec, k, attempts, "empty response")
	}

	out, err := part.Process(k, doc, rec)
	if err != nil {
		return r.fail(ctx, runID, rec, k, attempts, err.Error())
	}

	if err := artifact.WriteJSON(path, out); err != nil {
		return fmt.Errorf("record %s %s: %w", rec.ID, name, err)
	}

	slog.Info("Saved part", "id", rec.ID, "part", name, "path", path, "attempts", attempts)
	r.tracker.TrackGenerated(name)
	r.record(ctx, runID, rec, k, attempts, journal.OutcomeGenerated)
	return nil
}

func (r *Runner) render(rec catalog.Record, k part.Kind) (string, error) {
	data := prompts.Data{
		ID:      rec.ID,
		City:    rec.Name,
		Country: rec.Country,
		Count:   r.counts[k],
	}
	if k.Shape() == part.ShapeMap {
		data.Subtypes = r.sampler.Sample(k.Subtypes(), r.sample)
	}
	return r.prompts.Render(k.Template(), data)
}

func (r *Runner) fail(ctx context.Context, runID string, rec catalog.Record, k part.Kind, attempts int, reason string) error {
	name := k.String()
	slog.Error("Part failed", "id", rec.ID, "name", rec.Name, "part", name, "attempts", attempts, "reason", reason)

	r.tracker.TrackFailed(name)
	r.record(ctx, runID, rec, k, attempts, journal.OutcomeFailed)

	if err := r.failures.Record(rec.ID, rec.Name, name); err != nil {
		return fmt.Errorf("record %s %s: %w", rec.ID, name, err)
	}
	return nil
}

func (r *Runner) record(ctx context.Context, runID string, rec catalog.Record, k part.Kind, attempts int, outcome string) {
	if runID == "" {
		return
	}
	if err := r.journal.RecordPart(context.WithoutCancel(ctx), runID, rec.ID, k.String(), attempts, outcome); err != nil {
		slog.Warn("Failed to journal part", "id", rec.ID, "part", k.String(), "error", err)
	}
}

func (r *Runner) summary(runID string, records int) Summary {
	snap := r.tracker.Snapshot()
	s := Summary{RunID: runID, Records: records, Parts: make(map[part.Kind]tracker.Stats)}
	for _, k := range part.Kinds() {
		s.Parts[k] = snap[k.String()]
	}
	return s
}

func (r *Runner) logSummary(s Summary) {
	for _, k := range part.Kinds() {
		st := s.Parts[k]
		slog.Info("Part summary", "part", k.String(),
			"generated", st.Generated, "skipped", st.Skipped, "failed", st.Failed, "attempts", st.Attempts)
	}
	t := s.Total()
	slog.Info("Generation run finished", "run_id", s.RunID, "records", s.Records,
		"generated", t.Generated, "skipped", t.Skipped, "failed", t.Failed)
}
