package llm

import (
	"context"
)

// Provider defines the interface for interacting with LLM services.
type Provider interface {
	// GenerateText sends a prompt and returns the text of the first candidate.
	// name labels the call in logs and history.
	GenerateText(ctx context.Context, name, prompt string) (string, error)

	// HealthCheck verifies that the provider is configured and reachable.
	HealthCheck(ctx context.Context) error
}
