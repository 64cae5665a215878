// Package conformance runs recorded inference scenarios against the
// solver and tracks results across runs.
//
// A fixture is a txtar archive containing a case.yaml member that
// declares type parameters, inference steps and expected resolutions.
// Runs are recorded in a SQLite database so a baseline can be diffed
// and updated.
package conformance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the harness configuration file.
type Config struct {
	// Fixtures lists glob patterns of txtar fixture files.
	Fixtures []string `yaml:"fixtures"`

	// Database is the path of the SQLite results store. Defaults to
	// "conformance.db" next to the config file.
	Database string `yaml:"database,omitempty"`
}

// LoadConfig reads and validates a YAML harness configuration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Fixtures) == 0 {
		return nil, fmt.Errorf("no fixture globs configured")
	}
	if cfg.Database == "" {
		cfg.Database = "conformance.db"
	}
	return &cfg, nil
}
