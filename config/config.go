// Package config loads the indexer configuration from a YAML file
// with environment-variable overrides and sensible defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	indexerrors "github.com/araffali/product-indexer/internal/errors"
)

// Config is the top-level application configuration.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
	Jobs    JobsConfig    `yaml:"jobs"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// InputConfig locates the product corpus.
type InputConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig controls where finished indexes are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ServerConfig holds HTTP server settings for serve mode.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// JobsConfig bounds background build concurrency.
type JobsConfig struct {
	MaxWorkers int `yaml:"maxWorkers"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads a YAML config file (if provided) and applies
// environment-variable overrides on top of defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the CLI flag
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Input:   InputConfig{Path: "products.jsonl"},
		Output:  OutputConfig{Dir: "./index_data"},
		Server:  ServerConfig{Port: 8080},
		Jobs:    JobsConfig{MaxWorkers: 2},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Enabled: true},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("INDEXER_INPUT_PATH"); v != "" {
		cfg.Input.Path = v
	}
	if v := os.Getenv("INDEXER_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("INDEXER_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("INDEXER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("INDEXER_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("INDEXER_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return indexerrors.NewValidationError("input.path", "cannot be empty")
	}
	if c.Output.Dir == "" {
		return indexerrors.NewValidationError("output.dir", "cannot be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return indexerrors.NewValidationError("server.port", fmt.Sprintf("%d out of range", c.Server.Port))
	}
	if c.Jobs.MaxWorkers < 1 {
		return indexerrors.NewValidationError("jobs.maxWorkers", "must be at least 1")
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return indexerrors.NewValidationError("logging.format", fmt.Sprintf("must be 'text' or 'json', got %q", c.Logging.Format))
	}
	return nil
}
