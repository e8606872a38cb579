// Package config loads planner settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/nissyi-gh/planner/internal/model"
)

// Config holds the planner settings.
type Config struct {
	TasksFile        string `toml:"tasks_file"`
	HistoryDB        string `toml:"history_db"`
	LogFile          string `toml:"log_file"`
	LogLevel         string `toml:"log_level"`
	LogFormat        string `toml:"log_format"`
	ReminderInterval string `toml:"reminder_interval"`
	CatchUp          bool   `toml:"catch_up"`
	DefaultColor     string `toml:"default_color"`

	interval time.Duration
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		TasksFile:        "tasks.json",
		LogLevel:         "info",
		LogFormat:        "text",
		ReminderInterval: "60s",
		DefaultColor:     model.DefaultColor,
		interval:         time.Minute,
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/planner/config.toml.
func DefaultConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		var err error
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(configDir, "planner", "config.toml"), nil
}

// Load reads the config file at path over the defaults. A missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.Finalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Finalize validates the settings and computes derived values. Call it
// again after overriding fields.
func (c *Config) Finalize() error {
	d, err := time.ParseDuration(c.ReminderInterval)
	if err != nil {
		return fmt.Errorf("reminder_interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("reminder_interval must be positive, got %s", c.ReminderInterval)
	}
	c.interval = d

	color, err := model.NormalizeColor(c.DefaultColor)
	if err != nil {
		return fmt.Errorf("default_color: %w", err)
	}
	c.DefaultColor = color

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}

	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log_format: unknown format %q", c.LogFormat)
	}

	if strings.TrimSpace(c.TasksFile) == "" {
		c.TasksFile = "tasks.json"
	}
	return nil
}

// Interval returns the parsed reminder interval.
func (c Config) Interval() time.Duration {
	return c.interval
}

// Example is a commented config file with the default values.
const Example = `# planner configuration

# Task list, relative to the working directory unless absolute.
tasks_file = "tasks.json"

# Fired reminders log. Empty means $XDG_DATA_HOME/planner/history.db.
history_db = ""

# Log file for the terminal UI. Empty means $XDG_DATA_HOME/planner/planner.log.
log_file = ""
log_level = "info"     # debug, info, warn, error
log_format = "text"    # text, json, logfmt

# How often to check for due tasks.
reminder_interval = "60s"

# Fire tasks whose minute was missed (for example while suspended).
catch_up = false

default_color = "#3742fa"
`
