package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		content  string // empty: no file on disk
		validate func(*testing.T, *Config)
		wantErr  bool
	}{
		{
			name: "NewFile_Defaults",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2411, cfg.Range.Start)
				assert.Equal(t, 2412, cfg.Range.End)
				assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
				assert.Equal(t, 10, cfg.Counts.NewAttractions)
				assert.Equal(t, 10, cfg.Subtypes.Sample)
				assert.Equal(t, time.Second, time.Duration(cfg.Jitter.Retry.Min))
			},
		},
		{
			name:    "ExistingFile_Override",
			content: "range:\n  start: 5\n  end: 7\ncounts:\n  children: 2\njitter:\n  record:\n    min: 0s\n    max: 0s\n",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5, cfg.Range.Start)
				assert.Equal(t, 7, cfg.Range.End)
				assert.Equal(t, 2, cfg.Counts.Children)
				assert.Equal(t, 4, cfg.Counts.Instagram, "unset fields keep defaults")
				assert.Zero(t, cfg.Jitter.Record.Max)
			},
		},
		{
			name:    "InvertedRange",
			content: "range:\n  start: 9\n  end: 3\n",
			wantErr: true,
		},
		{
			name:    "ZeroCount",
			content: "counts:\n  new_attractions: 0\n",
			wantErr: true,
		},
		{
			name:    "JitterMinAboveMax",
			content: "jitter:\n  retry:\n    min: 3s\n    max: 1s\n",
			wantErr: true,
		},
		{
			name:    "MalformedYAML",
			content: "range: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", "")
			path := filepath.Join(t.TempDir(), "configs", "citygen.yaml")
			if tt.content != "" {
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validate(t, cfg)

			_, statErr := os.Stat(path)
			assert.NoError(t, statErr, "config file should exist after Load")
		})
	}
}

func TestLoad_EnvCredential(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")
	path := filepath.Join(t.TempDir(), "citygen.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.LLM.Key)
	assert.NoError(t, cfg.RequireCredential())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "from-env", "key must never be written to disk")
}

func TestRequireCredential(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.RequireCredential()
	assert.True(t, errors.Is(err, ErrMissingCredential))
}

func TestSave_Header(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citygen.yaml")
	require.NoError(t, Save(path, DefaultConfig()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(content)
	assert.True(t, strings.HasPrefix(s, "# citygen configuration"))
	assert.Contains(t, s, "# Inclusive bounds over numeric catalog identifiers\nrange:")
	assert.Contains(t, s, "model: gemini-2.5-flash")
	assert.Contains(t, s, "min: 800ms")
}

func TestGenerateDefault_KeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citygen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: custom.json\n"), 0o644))

	require.NoError(t, GenerateDefault(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "input: custom.json\n", string(content))
}
