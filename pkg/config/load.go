package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const appName = "framekit"

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/framekit/config.toml
//  2. ~/.config/framekit/config.toml
//
// If no file exists, returns DefaultConfig() with env overrides applied.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. Files
// ending in .yaml or .yml are decoded as YAML, everything else as TOML.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	}
	return LoadFromReader(f)
}

// LoadFromReader reads TOML configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode toml: %w", err)
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadYAML reads YAML configuration from an io.Reader.
func LoadYAML(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides checks environment variables and overrides config
// values. Unparseable values are ignored with a warning.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FRAMEKIT_TICK"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Frame.TickInterval = Duration{d}
		} else {
			slog.Warn("ignoring FRAMEKIT_TICK", "value", v, "error", err)
		}
	}
	if v := os.Getenv("FRAMEKIT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Tasks.Workers = n
		} else {
			slog.Warn("ignoring FRAMEKIT_WORKERS", "value", v, "error", err)
		}
	}
	if v := os.Getenv("FRAMEKIT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FRAMEKIT_ASSET_DIR"); v != "" {
		cfg.Assets.BaseDir = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, appName, "config.toml"))

	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, appName, "config.toml"))
	}
	return paths
}

func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}
