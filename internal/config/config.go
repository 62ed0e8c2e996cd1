// Package config loads tool configuration from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/iksnae/aisync/internal/model"
)

const envPrefix = "AISYNC_"

// Config holds the settings every command shares.
type Config struct {
	// OutputDir is where exported sessions are written.
	OutputDir string `koanf:"output_dir"`
	// Formats lists the export formats to produce (markdown, json,
	// jsonl, yaml, sqlite).
	Formats []string `koanf:"formats"`
	// Providers restricts the sweep to the named providers. Empty
	// means all of them.
	Providers []string `koanf:"providers"`
	// Redact controls secret redaction on export. On by default.
	Redact bool `koanf:"redact"`
	// Concurrency bounds how many providers are swept in parallel.
	Concurrency int `koanf:"concurrency"`
}

// Load reads configuration with the usual precedence: environment
// variables override the YAML file, which overrides defaults. If
// configPath is empty, ~/.aisync.yaml is used; a missing file is not an
// error.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		configPath = filepath.Join(home, ".aisync.yaml")
	}

	if content, err := os.ReadFile(configPath); err == nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file %s: %w", configPath, err)
	}

	// AISYNC_OUTPUT_DIR -> output_dir
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		OutputDir:   filepath.Join(home, "ai-sessions"),
		Formats:     []string{"markdown"},
		Redact:      true,
		Concurrency: 4,
	}
}

// Validate rejects unknown formats and providers up front so a typo in
// the config file fails loudly instead of silently exporting nothing.
func (c *Config) Validate() error {
	known := map[string]bool{"markdown": true, "md": true, "json": true, "jsonl": true, "yaml": true, "sqlite": true}
	for _, f := range c.Formats {
		if !known[strings.ToLower(f)] {
			return fmt.Errorf("unknown export format %q", f)
		}
	}
	for _, p := range c.Providers {
		if _, ok := model.ParseProvider(strings.ToLower(p)); !ok {
			return fmt.Errorf("unknown provider %q", p)
		}
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	return nil
}

// WantsProvider reports whether the sweep should include p.
func (c *Config) WantsProvider(p model.Provider) bool {
	if len(c.Providers) == 0 {
		return true
	}
	for _, name := range c.Providers {
		if strings.EqualFold(name, string(p)) {
			return true
		}
	}
	return false
}
