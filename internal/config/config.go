// Package config reads the per-project strand configuration and locates
// the data directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DirName is the per-project data directory, discovered by walking up
// from the working directory.
const DirName = ".strand"

// ConfigFileName is the yaml config inside the data directory.
const ConfigFileName = "config.yaml"

// Storage backend names accepted in config.yaml.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// LocalConfig is the subset of config.yaml the CLI reads directly.
// Parsed with yaml rather than regexes so comments and indentation behave.
type LocalConfig struct {
	Author  string `yaml:"author"`
	Backend string `yaml:"backend"` // "file" (default) or "sqlite"
	NoColor bool   `yaml:"no-color"`
}

// Load reads and parses config.yaml from the given strand directory.
// Returns an empty LocalConfig (not nil) if the file is absent or
// unparsable; configuration is never load-bearing enough to fail on.
func Load(strandDir string) *LocalConfig {
	data, err := os.ReadFile(filepath.Join(strandDir, ConfigFileName))
	if err != nil {
		return &LocalConfig{}
	}
	var cfg LocalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &LocalConfig{}
	}
	return &cfg
}

// LoadWithEnv reads config.yaml and applies environment overrides.
// Environment variables take precedence over file values.
//
// Supported variables:
//   - STRAND_AUTHOR: overrides author
//   - STRAND_BACKEND: overrides backend
//   - NO_COLOR: forces no-color when set to anything non-empty
func LoadWithEnv(strandDir string) *LocalConfig {
	cfg := Load(strandDir)
	if v := os.Getenv("STRAND_AUTHOR"); v != "" {
		cfg.Author = v
	}
	if v := os.Getenv("STRAND_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}
	return cfg
}

// Write persists the config to the strand directory, creating it if needed.
func (c *LocalConfig) Write(strandDir string) error {
	if err := os.MkdirAll(strandDir, 0o755); err != nil {
		return fmt.Errorf("create strand directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(filepath.Join(strandDir, ConfigFileName), data, 0o644)
}

// FindStrandDir locates the nearest .strand directory. STRAND_DIR wins
// when set; otherwise the walk starts at the working directory and climbs
// to the filesystem root. Returns os.ErrNotExist when no project is found.
func FindStrandDir() (string, error) {
	if dir := os.Getenv("STRAND_DIR"); dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	dir := cwd
	for {
		candidate := filepath.Join(dir, DirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s directory found from %s upward: %w", DirName, cwd, os.ErrNotExist)
		}
		dir = parent
	}
}
