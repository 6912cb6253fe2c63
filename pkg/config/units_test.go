package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"10s", 10 * time.Second, false},
		{"1m", 1 * time.Minute, false},
		{"1.5s", 1500 * time.Millisecond, false},
		{"800ms", 800 * time.Millisecond, false},
		{"1d", 24 * time.Hour, false},
		{"1w", 168 * time.Hour, false},
		{"2d2h", 50 * time.Hour, false},
		{"", 0, false},
		{"invalid", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	type TestConfig struct {
		Sleep Duration `yaml:"sleep"`
	}

	var cfg TestConfig
	if err := yaml.Unmarshal([]byte("sleep: 1.5s\n"), &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if time.Duration(cfg.Sleep) != 1500*time.Millisecond {
		t.Errorf("Expected 1.5s, got %v", time.Duration(cfg.Sleep))
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != "sleep: 1.5s\n" {
		t.Errorf("Marshal = %q", out)
	}
}
