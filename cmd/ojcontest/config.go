package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend  string            `yaml:"backend"`
	Settings map[string]string `yaml:"settings"`
	LogLevel string            `yaml:"log_level"`
	Cache    string            `yaml:"cache"`
	Trace    string            `yaml:"trace"`
	Serve    ServeConfig       `yaml:"serve"`
}

type ServeConfig struct {
	Address string `yaml:"address"`
}

// loadConfig reads path, then applies environment overrides. A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}
	if cfg.Settings == nil {
		cfg.Settings = make(map[string]string)
	}

	if v := os.Getenv("OJCONTEST_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("OJCONTEST_BASE_URL"); v != "" {
		cfg.Settings["base_url"] = v
	}
	if v := os.Getenv("OJCONTEST_SESSION_ID"); v != "" {
		cfg.Settings["session_id"] = v
	}
	if v := os.Getenv("OJCONTEST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("OJCONTEST_CACHE"); v != "" {
		cfg.Cache = v
	}
	if v := os.Getenv("OJCONTEST_TRACE"); v != "" {
		cfg.Trace = v
	}
	if cfg.Serve.Address == "" {
		cfg.Serve.Address = ":8080"
	}
	return &cfg, nil
}

func (c *Config) level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// mergeSettings applies repeated key=value overrides on top of the config file.
func (c *Config) mergeSettings(pairs []string) error {
	for _, pair := range pairs {
		key, val, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return fmt.Errorf("setting %q must be key=value", pair)
		}
		c.Settings[key] = val
	}
	return nil
}
