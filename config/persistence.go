package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/ghodss/yaml"
	"github.com/google/renameio/v2"
)

// Load reads the YAML (or JSON) config file at path on top of the defaults,
// applies environment overrides and validates the result.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			err = yaml.Unmarshal(data, cfg)
			if err != nil {
				return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
	}

	err := ParseEnv(cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv applies the OBJECTBASE_* environment variables to cfg.
func ParseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// Save writes the config as YAML to path.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: failed to encode: %w", err)
	}
	return renameio.WriteFile(path, data, 0o0600)
}
