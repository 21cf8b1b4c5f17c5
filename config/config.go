// Package config provides YAML-backed configuration for the hive-mind
// server and its simulation defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ThryLox/hive-mind/sim"
)

// Config is the full server configuration.
type Config struct {
	// Addr is the listen address for the websocket server.
	Addr string `yaml:"addr"`

	// LogLevel sets verbosity: "info" (default), "debug", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// Sim holds the simulation tunables used for the initial Init.
	Sim sim.Config `yaml:"sim"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:     ":8080",
		LogLevel: "info",
		Sim:      sim.DefaultConfig(),
	}
}

// Load reads YAML from path over the defaults; fields absent from the
// file keep their default value. An empty path or a missing file returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
