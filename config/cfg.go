// Package config loads and validates program configuration.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"
)

type Config struct {
	Version int           `yaml:"version" validate:"eq=1"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the configuration used when no file is given: console
// logging at normal level, no file logger.
func Default() *Config {
	return &Config{
		Version: 1,
		Logging: LoggingConfig{
			ConsoleLogger: LoggerConfig{Level: "normal"},
			FileLogger:    LoggerConfig{Level: "none", Mode: "append"},
		},
	}
}

// LoadConfiguration reads, parses and validates the yaml configuration at
// fname. An empty fname yields defaults.
func LoadConfiguration(fname string) (*Config, error) {
	cfg := Default()
	if len(fname) > 0 {
		data, err := os.ReadFile(fname)
		if err != nil {
			return nil, fmt.Errorf("unable to read configuration: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unable to parse configuration: %w", err)
		}
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Dump serializes the processed configuration back to yaml.
func Dump(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
