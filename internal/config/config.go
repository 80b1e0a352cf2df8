// Package config provides configuration loading for the comon tools.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the yaml configuration for the sandbox CLI and the
// engine's ambient settings.
type Config struct {
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`

	// Filter holds default filter tokens applied at attach when the
	// command line supplies none, e.g. ["-e", "{clsid}"].
	Filter []string `yaml:"filter"`

	// Metadata optionally names a yaml metadata seed file loaded into
	// the type store at startup.
	Metadata string `yaml:"metadata"`
}

// Default returns the default configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.Log.Level = "info"
	cfg.Log.Pretty = true
	return cfg
}

// Load reads a config file. An empty path or a missing file yields the
// defaults; a present but malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
