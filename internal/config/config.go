// Package config loads editor settings from a TOML file and supports live
// reload when the file changes on disk.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the editor settings.
type Config struct {
	// TabWidth is the number of spaces inserted for a tab.
	TabWidth int `toml:"tab_width"`

	// UndoBudgetBytes caps the estimated memory held by undo history.
	UndoBudgetBytes int `toml:"undo_budget_bytes"`

	// CoalesceWindowMS is the gap, in milliseconds, under which consecutive
	// edits merge into one undo step.
	CoalesceWindowMS int `toml:"coalesce_window_ms"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		TabWidth:         4,
		UndoBudgetBytes:  5 * 1024 * 1024,
		CoalesceWindowMS: 750,
		LogLevel:         "info",
	}
}

// Load reads settings from a TOML file, filling unset keys from the
// defaults. A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg.normalize(), nil
}

// normalize clamps out-of-range values back to the defaults.
func (c Config) normalize() Config {
	def := Default()
	if c.TabWidth <= 0 {
		c.TabWidth = def.TabWidth
	}
	if c.UndoBudgetBytes <= 0 {
		c.UndoBudgetBytes = def.UndoBudgetBytes
	}
	if c.CoalesceWindowMS <= 0 {
		c.CoalesceWindowMS = def.CoalesceWindowMS
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	return c
}

// CoalesceWindow returns the coalescing window as a duration.
func (c Config) CoalesceWindow() time.Duration {
	return time.Duration(c.CoalesceWindowMS) * time.Millisecond
}
