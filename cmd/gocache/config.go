package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"gocache/internal/cache"
	"gocache/internal/hasher"
)

// Config is the demo configuration. Zero fields in a file keep their defaults.
type Config struct {
	Capacity       int           `yaml:"capacity"`
	Hasher         string        `yaml:"hasher"`
	LogLevel       string        `yaml:"log_level"`
	ReportInterval time.Duration `yaml:"report_interval"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Capacity:       2,
		Hasher:         "",
		LogLevel:       "info",
		ReportInterval: 100 * time.Millisecond,
	}
}

// LoadConfig reads a YAML file over DefaultConfig. An empty path returns the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field and returns the first problem found.
func (c Config) Validate() error {
	if c.Capacity < cache.MinCapacity {
		return fmt.Errorf("capacity must be at least %d, got %d", cache.MinCapacity, c.Capacity)
	}
	if c.Hasher != "" {
		if _, err := hasher.ByName(c.Hasher); err != nil {
			return err
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.ReportInterval < 0 {
		return fmt.Errorf("report_interval must not be negative, got %s", c.ReportInterval)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// CacheOptions translates the config into cache options. An unknown hasher
// name is an error.
func (c Config) CacheOptions(logger *slog.Logger) ([]cache.Option, error) {
	opts := []cache.Option{cache.WithLogger(logger)}
	if c.Hasher != "" {
		f, err := hasher.ByName(c.Hasher)
		if err != nil {
			return nil, err
		}
		opts = append(opts, cache.WithByteHasher(f))
	}
	return opts, nil
}
