// Package config loads the conjecturer configuration from YAML, with sane
// defaults when no file exists and environment overrides for credentials.
// Configuration is an explicit value handed to each subsystem, never ambient
// state, so the engine stays pure and independently testable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"conjecturer/internal/conjecture"
)

// Config holds all conjecturer configuration.
type Config struct {
	// Engine search bounds
	Engine EngineConfig `yaml:"engine"`

	// OEIS client settings
	OEIS OEISConfig `yaml:"oeis"`

	// GitHub publication settings
	GitHub GitHubConfig `yaml:"github"`

	// Local persistence
	Store StoreConfig `yaml:"store"`

	// Debug logging
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig configures the conjecture testers' search ranges.
type EngineConfig struct {
	MaxPolyDegree      int     `yaml:"max_poly_degree"`
	VerificationRatio  float64 `yaml:"verification_ratio"`
	MaxRecurrenceDepth int     `yaml:"max_recurrence_depth"`
	MaxRationalDegree  int     `yaml:"max_rational_degree"`
	TesterTimeout      string  `yaml:"tester_timeout"`
}

// OEISConfig configures the sequence provider.
type OEISConfig struct {
	BaseURL     string `yaml:"base_url"`
	SearchQuery string `yaml:"search_query"`
	SearchCount int    `yaml:"search_count"`
}

// GitHubConfig configures the reporting sink.
type GitHubConfig struct {
	Token      string `yaml:"token"`
	Repository string `yaml:"repository"` // owner/repo
}

// StoreConfig configures local persistence.
type StoreConfig struct {
	DatabasePath  string `yaml:"database_path"`
	CandidateFile string `yaml:"candidate_file"`
}

// LoggingConfig configures the category debug logger.
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxPolyDegree:      15,
			VerificationRatio:  0.8,
			MaxRecurrenceDepth: 15,
			MaxRationalDegree:  4,
			TesterTimeout:      "30s",
		},
		OEIS: OEISConfig{
			BaseURL:     "https://oeis.org",
			SearchQuery: "keyword:unkn",
			SearchCount: 50,
		},
		Store: StoreConfig{
			DatabasePath:  "data/conjecturer.db",
			CandidateFile: "data/candidate_sequences.json",
		},
		Logging: LoggingConfig{
			Debug: false,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults;
// credentials always come from the environment when set.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets the environment win for credentials and the
// database location.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		c.GitHub.Token = v
	}
	if v := os.Getenv("GITHUB_REPOSITORY"); v != "" {
		c.GitHub.Repository = v
	}
	if v := os.Getenv("OEIS_BASE_URL"); v != "" {
		c.OEIS.BaseURL = v
	}
	if v := os.Getenv("CONJECTURER_DB"); v != "" {
		c.Store.DatabasePath = v
	}
}

// Bounds converts the engine section into the value the testers consume.
// Invalid or missing fields fall back to the engine defaults.
func (c *Config) Bounds() conjecture.Bounds {
	b := conjecture.DefaultBounds()
	if c.Engine.MaxPolyDegree > 0 {
		b.MaxPolyDegree = c.Engine.MaxPolyDegree
	}
	if c.Engine.VerificationRatio > 0 && c.Engine.VerificationRatio <= 1 {
		b.VerificationRatio = c.Engine.VerificationRatio
	}
	if c.Engine.MaxRecurrenceDepth > 0 {
		b.MaxRecurrenceDepth = c.Engine.MaxRecurrenceDepth
	}
	if c.Engine.MaxRationalDegree > 0 {
		b.MaxRationalDegree = c.Engine.MaxRationalDegree
	}
	if d, err := time.ParseDuration(c.Engine.TesterTimeout); err == nil && d > 0 {
		b.TesterTimeout = d
	}
	return b
}
