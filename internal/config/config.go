// Package config handles tinydb configuration loading and defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the optional configuration file in the base
// directory.
const FileName = "tinydb.yaml"

// Config represents the contents of tinydb.yaml.
type Config struct {
	Dir  string    `yaml:"dir"`
	Name string    `yaml:"name"`
	JSON bool      `yaml:"json"`
	Log  LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Color bool   `yaml:"color"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Name: "default",
		Log: LogConfig{
			Level: "warn",
			Color: true,
		},
	}
}

// Load reads the config file at path and applies defaults for missing
// fields. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Name == "" {
		cfg.Name = "default"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}

	return cfg, nil
}

// Write writes the provided configuration to path.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
