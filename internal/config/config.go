// Package config loads bgoblin settings from TOML files.
//
// Settings come from three layers, later ones winning:
//   - built-in defaults ([Default])
//   - the user config at ~/.config/bgoblin/config.toml
//   - a per-repository .bgoblin.toml in the working tree root
//
// Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Johannes-Berggren/BranchGoblin/internal/branches"
	"github.com/Johannes-Berggren/BranchGoblin/internal/watch"
)

// LocalConfigFileName is the per-repository override file.
const LocalConfigFileName = ".bgoblin.toml"

// MaxPatterns is the number of pattern shortcuts the TUI can bind (keys 1-9).
const MaxPatterns = 9

// Duration is a time.Duration written as a Go duration string ("150ms").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds the bgoblin configuration.
type Config struct {
	Protected     []string `toml:"protected"`      // branches that can never be deleted
	Patterns      []string `toml:"patterns"`       // prefixes offered as bulk selections
	GitBinary     string   `toml:"git_binary"`     // git executable to run
	WatchDebounce Duration `toml:"watch_debounce"` // refresh coalescing window
	LogFile       string   `toml:"log_file"`       // TUI log destination
}

// fileConfig mirrors Config with optional fields so that a file only
// overrides the keys it sets.
type fileConfig struct {
	Protected     []string  `toml:"protected"`
	Patterns      []string  `toml:"patterns"`
	GitBinary     string    `toml:"git_binary"`
	WatchDebounce *Duration `toml:"watch_debounce"`
	LogFile       string    `toml:"log_file"`
}

// Default returns the default configuration.
func Default() Config {
	policy := branches.DefaultPolicy()
	return Config{
		Protected:     policy.Protected,
		Patterns:      policy.Patterns,
		GitBinary:     "git",
		WatchDebounce: Duration{watch.DefaultDebounce},
		LogFile:       "",
	}
}

// Policy returns the selection policy described by the config.
func (c Config) Policy() branches.Policy {
	return branches.Policy{
		Protected: append([]string(nil), c.Protected...),
		Patterns:  append([]string(nil), c.Patterns...),
	}
}

// UserConfigPath returns ~/.config/bgoblin/config.toml.
func UserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "bgoblin", "config.toml"), nil
}

// Load resolves the configuration for a repository rooted at repoRoot.
// An empty path means the user config file, which may be absent; an
// explicit path must exist. repoRoot may be empty to skip the local file.
func Load(path, repoRoot string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := UserConfigPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := mergeFile(&cfg, path, explicit); err != nil {
			return Default(), err
		}
	}

	if repoRoot != "" {
		if err := mergeFile(&cfg, filepath.Join(repoRoot, LocalConfigFileName), false); err != nil {
			return Default(), err
		}
	}

	if err := Validate(cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string, mustExist bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !mustExist {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.Protected != nil {
		cfg.Protected = fc.Protected
	}
	if fc.Patterns != nil {
		cfg.Patterns = fc.Patterns
	}
	if fc.GitBinary != "" {
		cfg.GitBinary = fc.GitBinary
	}
	if fc.WatchDebounce != nil {
		cfg.WatchDebounce = *fc.WatchDebounce
	}
	if fc.LogFile != "" {
		expanded, err := expandPath(fc.LogFile)
		if err != nil {
			return fmt.Errorf("expand log_file: %w", err)
		}
		cfg.LogFile = expanded
	}
	return nil
}

// Validate checks names and patterns for blanks and duplicates and bounds
// the number of patterns.
func Validate(cfg Config) error {
	if err := validateNames("protected", cfg.Protected); err != nil {
		return err
	}
	if err := validateNames("patterns", cfg.Patterns); err != nil {
		return err
	}
	if len(cfg.Patterns) > MaxPatterns {
		return fmt.Errorf("patterns: at most %d entries allowed, got %d", MaxPatterns, len(cfg.Patterns))
	}
	if strings.TrimSpace(cfg.GitBinary) == "" {
		return fmt.Errorf("git_binary must not be empty")
	}
	if cfg.WatchDebounce.Duration < 0 {
		return fmt.Errorf("watch_debounce must not be negative, got %s", cfg.WatchDebounce)
	}
	return nil
}

func validateNames(field string, names []string) error {
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("%s[%d] must not be empty", field, i)
		}
		if seen[n] {
			return fmt.Errorf("%s: duplicate entry %q", field, n)
		}
		seen[n] = true
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
