// Package config loads furry-counter settings from defaults, an optional
// TOML or YAML file, and FURRY_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable Load reads.
const EnvPrefix = "FURRY_"

var (
	// ErrInvalidStep is returned when a click would not change the store.
	ErrInvalidStep = errors.New("step must not be zero")
	// ErrInvalidBucket is returned when the selector bucket is not positive.
	ErrInvalidBucket = errors.New("bucket must be at least 1")
	// ErrUnknownFormat is returned for config files that are neither TOML nor YAML.
	ErrUnknownFormat = errors.New("unknown config format")
)

// Config holds the application settings.
type Config struct {
	Step     int           `toml:"step" yaml:"step" env:"STEP"`
	Bucket   int           `toml:"bucket" yaml:"bucket" env:"BUCKET"`
	TickRate time.Duration `toml:"tick_rate" yaml:"tick_rate" env:"TICK_RATE"`
	LogFile  string        `toml:"log_file" yaml:"log_file" env:"LOG_FILE"`
	LogLevel string        `toml:"log_level" yaml:"log_level" env:"LOG_LEVEL"`
	Width    int           `toml:"width" yaml:"width" env:"WIDTH"`
	Height   int           `toml:"height" yaml:"height" env:"HEIGHT"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Step:     2,
		Bucket:   10,
		TickRate: time.Second / 30,
		LogLevel: "info",
		Width:    40,
		Height:   16,
	}
}

// Load applies the file at path (if non-empty) and then the environment
// over the defaults. A missing file is an error only when path was given.
// The result is not validated; callers layer their own overrides first and
// then call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	return nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if c.Step == 0 {
		return ErrInvalidStep
	}
	if c.Bucket < 1 {
		return ErrInvalidBucket
	}
	if c.TickRate < 0 {
		return fmt.Errorf("tick rate must not be negative: %s", c.TickRate)
	}
	if _, err := log.ParseLevel(c.LevelOrDefault()); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// LevelOrDefault returns the configured log level, or info.
func (c *Config) LevelOrDefault() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// NewLogger builds a logger writing to LogFile, or discarding when it is
// empty. The terminal UI owns stdout, so logs never go there. The returned
// closer releases the file.
func (c *Config) NewLogger() (*log.Logger, io.Closer, error) {
	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})
	level, err := log.ParseLevel(c.LevelOrDefault())
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(level)

	if c.LogFile == "" {
		logger.SetOutput(io.Discard)
		return logger, io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, f, nil
}
