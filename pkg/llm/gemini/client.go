package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/iterator"
	"google.golang.org/genai"

	"citygen/pkg/config"
	"citygen/pkg/llm"
	"citygen/pkg/tracker"
)

// DefaultModel is used when the configuration names none.
const DefaultModel = "gemini-2.5-flash"

const providerName = "gemini"

// Client implements llm.Provider for Google Gemini.
type Client struct {
	genaiClient *genai.Client
	apiKey      string
	modelName   string
	tracker     *tracker.Tracker
	logPath     string

	mu sync.RWMutex
}

// NewClient creates a new Gemini client. logPath, when set, receives a
// human-readable history of every prompt and response.
func NewClient(cfg config.LLMConfig, logPath string, t *tracker.Tracker) (*Client, error) {
	c := &Client{tracker: t, logPath: logPath}
	if err := c.Configure(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

// Configure updates the client with new settings.
func (c *Client) Configure(cfg config.LLMConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.apiKey = cfg.Key
	c.modelName = cfg.Model
	if c.modelName == "" {
		c.modelName = DefaultModel
	}

	if c.apiKey == "" {
		// Can't initialize without key.
		c.genaiClient = nil
		return nil
	}

	cc := &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	client, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		return fmt.Errorf("failed to create genai client: %w", err)
	}
	c.genaiClient = client
	return nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.modelName
}

// Close cleans up resources.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.genaiClient = nil
}

// GenerateText sends a prompt and returns the text of the first candidate.
func (c *Client) GenerateText(ctx context.Context, name, prompt string) (string, error) {
	c.mu.RLock()
	client := c.genaiClient
	modelName := c.modelName
	c.mu.RUnlock()

	if client == nil {
		return "", fmt.Errorf("gemini client not configured")
	}

	resp, err := client.Models.GenerateContent(ctx, modelName, genai.Text(prompt), &genai.GenerateContentConfig{})
	if err != nil {
		c.logPrompt(name, prompt, fmt.Sprintf("ERROR: %v", err))
		c.trackFailure()
		return "", fmt.Errorf("generate text error: %w", err)
	}

	text, err := getResponseText(resp)
	if err != nil {
		c.logPrompt(name, prompt, fmt.Sprintf("TEXT_PARSE_ERROR: %v", err))
		c.trackFailure()
		return "", err
	}

	c.logPrompt(name, prompt, text)
	if c.tracker != nil {
		c.tracker.TrackAPISuccess(providerName)
	}
	return text, nil
}

// HealthCheck verifies that a key is configured and the model is known to the API.
func (c *Client) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	client := c.genaiClient
	c.mu.RUnlock()

	if client == nil {
		return fmt.Errorf("gemini client not configured")
	}
	return c.validateModel(ctx, client)
}

func (c *Client) trackFailure() {
	if c.tracker != nil {
		c.tracker.TrackAPIFailure(providerName)
	}
}

func (c *Client) logPrompt(name, prompt, response string) {
	if c.logPath == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(c.logPath), 0o755); err != nil {
		return
	}

	f, err := os.OpenFile(c.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	entry := fmt.Sprintf("[%s] PROMPT: %s\nPROMPT_TEXT:\n%s\n\nRESPONSE:\n%s\n%s\n",
		timestamp, name, prompt, llm.WordWrap(response, 80), strings.Repeat("-", 80))

	_, _ = f.WriteString(entry)
}

func getResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// validateModel checks if the configured model is available for the API key.
func (c *Client) validateModel(ctx context.Context, client *genai.Client) error {
	name := c.Model()
	if !strings.HasPrefix(name, "models/") {
		name = "models/" + name
	}

	_, err := client.Models.Get(ctx, name, nil)
	if err == nil {
		slog.Debug("Gemini model validation success", "model", name)
		return nil
	}

	slog.Warn("Gemini model validation failed, fetching available models...", "model", name, "error", err)

	iter, listErr := client.Models.List(ctx, nil)
	if listErr != nil {
		return fmt.Errorf("model %s not available: %w", name, err)
	}

	var availableModels []string
	for {
		resp, nextErr := iter.Next(ctx)
		if nextErr == iterator.Done || nextErr != nil {
			break
		}
		if strings.Contains(strings.ToLower(resp.Name), "gemini") {
			availableModels = append(availableModels, resp.Name)
		}
	}

	for _, m := range availableModels {
		slog.Info("Available Gemini model", "name", m)
	}
	return fmt.Errorf("model %s not available: %w", name, err)
}
