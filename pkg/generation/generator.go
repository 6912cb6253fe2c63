// Package generation turns a prompt into a parsed JSON document, with one
// retry after a short randomized pause.
package generation

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/tidwall/gjson"

	"citygen/pkg/config"
	"citygen/pkg/jsonutil"
	"citygen/pkg/llm"
)

// MaxAttempts is the number of provider calls per part.
const MaxAttempts = 2

// Generator wraps a provider with response cleanup and bounded retry.
type Generator struct {
	provider llm.Provider
	jitter   config.JitterRange

	// Sleep pauses between attempts. Replaced in tests.
	Sleep func(ctx context.Context, d time.Duration) error
	// Float returns a value in [0, 1). Replaced in tests.
	Float func() float64
}

// New creates a Generator using jitter as the pause between attempts.
func New(p llm.Provider, jitter config.JitterRange) *Generator {
	return &Generator{
		provider: p,
		jitter:   jitter,
		Sleep:    Sleep,
		Float:    rand.Float64,
	}
}

// Generate makes one provider call and returns the parsed document, or nil
// when the call failed or the result is unusable. It never returns an error:
// every failure is logged and reported as an empty result.
func (g *Generator) Generate(ctx context.Context, name, prompt string) json.RawMessage {
	text, err := g.provider.GenerateText(ctx, name, prompt)
	if err != nil {
		slog.Warn("Generation call failed", "part", name, "error", err)
		return nil
	}

	doc := parse(text)
	if doc == nil {
		slog.Warn("Generation returned no usable JSON", "part", name, "response_len", len(text))
		return nil
	}
	return doc
}

// GenerateWithRetry calls Generate and, if the result is empty, pauses for a
// random jitter and tries exactly once more. It returns the result and the
// number of attempts made.
func (g *Generator) GenerateWithRetry(ctx context.Context, name, prompt string) (json.RawMessage, int) {
	if doc := g.Generate(ctx, name, prompt); doc != nil {
		return doc, 1
	}

	d := Jitter(g.jitter, g.Float)
	slog.Info("Retrying generation", "part", name, "delay", d)
	if err := g.Sleep(ctx, d); err != nil {
		return nil, 1
	}
	return g.Generate(ctx, name, prompt), MaxAttempts
}

// parse strips code fences and validates the response. A response that still
// fails is stripped once more; prose around the document is not tolerated.
func parse(text string) json.RawMessage {
	cleaned := llm.CleanJSONBlock(text)
	if !gjson.Valid(cleaned) {
		cleaned = llm.CleanJSONBlock(cleaned)
		if !gjson.Valid(cleaned) {
			return nil
		}
	}
	if !jsonutil.Truthy(gjson.Parse(cleaned)) {
		return nil
	}
	return json.RawMessage(cleaned)
}

// Jitter returns a duration uniformly distributed in [j.Min, j.Max].
func Jitter(j config.JitterRange, float func() float64) time.Duration {
	lo, hi := time.Duration(j.Min), time.Duration(j.Max)
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(float()*float64(hi-lo))
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
