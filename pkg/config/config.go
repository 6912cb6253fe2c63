package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingCredential is returned when no Gemini API key is configured.
var ErrMissingCredential = errors.New("GEMINI_API_KEY not found in config or environment")

// Config holds the generator configuration.
type Config struct {
	Input    string         `yaml:"input"`
	Output   string         `yaml:"output"`
	Range    RangeConfig    `yaml:"range"`
	Counts   CountsConfig   `yaml:"counts"`
	Subtypes SubtypesConfig `yaml:"subtypes"`
	LLM      LLMConfig      `yaml:"llm"`
	Jitter   JitterConfig   `yaml:"jitter"`
	Prompts  PromptsConfig  `yaml:"prompts"`
	Journal  JournalConfig  `yaml:"journal"`
	Log      LogConfig      `yaml:"log"`
}

// RangeConfig selects catalog identifiers, both ends inclusive.
type RangeConfig struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// CountsConfig holds the number of items requested per part.
// Map-shaped parts request the count per subtype.
type CountsConfig struct {
	Children       int `yaml:"children"`
	Instagram      int `yaml:"instagram"`
	PlacesOfPower  int `yaml:"places_of_power"`
	NewAttractions int `yaml:"new_attractions"`
}

// SubtypesConfig controls subtype sampling for map-shaped parts.
type SubtypesConfig struct {
	Sample int `yaml:"sample"`
}

// LLMConfig holds settings for the Gemini provider.
type LLMConfig struct {
	Model    string `yaml:"model"`
	Key      string `yaml:"key"`
	Endpoint string `yaml:"endpoint"` // empty: Google default
}

// JitterConfig holds the randomized sleeps of a run.
type JitterConfig struct {
	Retry  JitterRange `yaml:"retry"`  // between the two attempts of a part
	Record JitterRange `yaml:"record"` // after every record
}

// JitterRange is a uniform sleep interval.
type JitterRange struct {
	Min Duration `yaml:"min"`
	Max Duration `yaml:"max"`
}

// PromptsConfig holds prompt template settings.
type PromptsConfig struct {
	Dir string `yaml:"dir"` // empty: use the built-in templates
}

// JournalConfig holds settings for the SQLite run journal.
type JournalConfig struct {
	Path string `yaml:"path"` // empty: journal disabled
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server LogSettings `yaml:"server"`
	Gemini LogSettings `yaml:"gemini"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Input:  "my_own.json",
		Output: "CheapCity_generated_city_jsons",
		Range: RangeConfig{
			Start: 2411,
			End:   2412,
		},
		Counts: CountsConfig{
			Children:       4,
			Instagram:      4,
			PlacesOfPower:  4,
			NewAttractions: 10,
		},
		Subtypes: SubtypesConfig{
			Sample: 10,
		},
		LLM: LLMConfig{
			Model: "gemini-2.5-flash",
		},
		Jitter: JitterConfig{
			Retry: JitterRange{
				Min: Duration(1 * time.Second),
				Max: Duration(2 * time.Second),
			},
			Record: JitterRange{
				Min: Duration(800 * time.Millisecond),
				Max: Duration(1500 * time.Millisecond),
			},
		},
		Journal: JournalConfig{
			Path: "./data/citygen.db",
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/citygen.log",
				Level: "INFO",
			},
			Gemini: LogSettings{
				Path:  "./logs/gemini.log",
				Level: "INFO",
			},
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// A .env file next to the working directory is read first so that
// GEMINI_API_KEY can be supplied out-of-band.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Missing .env is fine; the key may come from the real environment.
	_ = godotenv.Load()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	// Env fallback, never saved back to disk
	if cfg.LLM.Key == "" {
		cfg.LLM.Key = os.Getenv("GEMINI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the static configuration for inconsistencies.
// The credential is checked separately by RequireCredential.
func (c *Config) Validate() error {
	if c.Range.Start < 0 || c.Range.End < 0 {
		return fmt.Errorf("invalid range [%d, %d]: bounds must be non-negative", c.Range.Start, c.Range.End)
	}
	if c.Range.Start > c.Range.End {
		return fmt.Errorf("invalid range [%d, %d]: start exceeds end", c.Range.Start, c.Range.End)
	}
	counts := map[string]int{
		"children":        c.Counts.Children,
		"instagram":       c.Counts.Instagram,
		"places_of_power": c.Counts.PlacesOfPower,
		"new_attractions": c.Counts.NewAttractions,
	}
	for name, n := range counts {
		if n <= 0 {
			return fmt.Errorf("invalid counts.%s %d: must be positive", name, n)
		}
	}
	if c.Subtypes.Sample <= 0 {
		return fmt.Errorf("invalid subtypes.sample %d: must be positive", c.Subtypes.Sample)
	}
	for name, j := range map[string]JitterRange{"retry": c.Jitter.Retry, "record": c.Jitter.Record} {
		if j.Min < 0 || j.Min > j.Max {
			return fmt.Errorf("invalid jitter.%s: min %v must be within [0, max %v]", name, time.Duration(j.Min), time.Duration(j.Max))
		}
	}
	if c.Output == "" {
		return fmt.Errorf("output root must not be empty")
	}
	return nil
}

// RequireCredential returns ErrMissingCredential when no API key is set.
func (c *Config) RequireCredential() error {
	if c.LLM.Key == "" {
		return ErrMissingCredential
	}
	return nil
}

// Save writes the configuration to the path.
// The API key is never persisted.
func Save(path string, cfg *Config) error {
	out := *cfg
	out.LLM.Key = ""

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# citygen configuration
# ---------------------
# Supported Units:
#   Duration: ms, s, m, h, d (day), w (week)
# The Gemini API key is read from GEMINI_API_KEY (environment or .env).

`)
	data = append(header, data...)

	reRange := regexp.MustCompile(`(?m)^range:`)
	data = reRange.ReplaceAll(data, []byte("# Inclusive bounds over numeric catalog identifiers\nrange:"))

	reCounts := regexp.MustCompile(`(?m)^counts:`)
	data = reCounts.ReplaceAll(data, []byte("# Items per subtype (children, instagram, places_of_power) or in total (new_attractions)\ncounts:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
