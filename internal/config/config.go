// Package config loads the run configuration: compiled-in defaults, an
// optional YAML file on top, and environment overrides (optionally from a
// .env file) on top of that. CLI flags override everything.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so that YAML values like "5s" or "24h"
// parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped standard duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds everything a crawl run needs to know.
type Config struct {
	InputFile    string   `yaml:"input_file"` // borough URL list, one per line
	OutputDir    string   `yaml:"output_dir"` // where .ics files and index.html go
	URLPrefix    string   `yaml:"url_prefix"` // input lines without this prefix are ignored
	Delay        Duration `yaml:"delay"`      // minimum pause between requests
	Timeout      Duration `yaml:"timeout"`    // per-request timeout
	Grace        Duration `yaml:"grace"`      // past-event exclusion window
	UserAgent    string   `yaml:"user_agent"`
	From         string   `yaml:"from"` // contact address for the From header
	FetchDetails bool     `yaml:"fetch_details"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		InputFile:    "input.txt",
		OutputDir:    "public",
		URLPrefix:    "https://www.berlin.de/",
		Delay:        Duration(3 * time.Second),
		Timeout:      Duration(30 * time.Second),
		Grace:        Duration(24 * time.Hour),
		UserAgent:    "gremienkalender/1.0 (github.com/elchenberg/gremienkalender)",
		FetchDetails: true,
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty) and environment variables. A .env file in the working
// directory is honored when present.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	// .env is optional; a missing file is not an error
	_ = godotenv.Load()
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GREMIENKALENDER_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("GREMIENKALENDER_FROM"); v != "" {
		c.From = v
	}
	if v := os.Getenv("GREMIENKALENDER_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
}
