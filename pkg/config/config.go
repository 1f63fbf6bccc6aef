package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config is the root configuration.
type Config struct {
	Frame  FrameConfig  `toml:"frame" yaml:"frame"`
	Tasks  TasksConfig  `toml:"tasks" yaml:"tasks"`
	Assets AssetsConfig `toml:"assets" yaml:"assets"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

// FrameConfig controls the event loop.
type FrameConfig struct {
	// TickInterval is how often timers are polled and finished tasks
	// collected.
	TickInterval Duration `toml:"tick_interval" yaml:"tick_interval"`
}

// TasksConfig controls the background task queue.
type TasksConfig struct {
	Workers int `toml:"workers" yaml:"workers"`
}

// AssetsConfig controls how file-backed images and fonts are read.
type AssetsConfig struct {
	BaseDir       string `toml:"base_dir" yaml:"base_dir"`
	MaxFileSizeMB int    `toml:"max_file_size_mb" yaml:"max_file_size_mb"`
}

// LogConfig controls diagnostics output.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Frame: FrameConfig{TickInterval: Duration{16 * time.Millisecond}},
		Tasks: TasksConfig{Workers: 1},
		Assets: AssetsConfig{
			MaxFileSizeMB: 64,
		},
		Log: LogConfig{Level: "info"},
	}
}

// MaxFileSize returns the asset size limit in bytes; 0 means unlimited.
func (c *Config) MaxFileSize() int64 {
	return int64(c.Assets.MaxFileSizeMB) << 20
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// LogLevel maps Log.Level to a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	if l, ok := levels[strings.ToLower(c.Log.Level)]; ok {
		return l
	}
	return slog.LevelInfo
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Frame.TickInterval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("frame.tick_interval must be positive, got %s", c.Frame.TickInterval.Duration))
	}
	if c.Tasks.Workers < 1 {
		errs = append(errs, fmt.Errorf("tasks.workers must be at least 1, got %d", c.Tasks.Workers))
	}
	if c.Assets.MaxFileSizeMB < 0 {
		errs = append(errs, fmt.Errorf("assets.max_file_size_mb must not be negative, got %d", c.Assets.MaxFileSizeMB))
	}
	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
