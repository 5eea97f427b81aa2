package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// NewConfig loads and validates the configuration file at path.
func NewConfig(path string) (*Config, error) {
	if ext := filepath.Ext(path); ext != ".toml" {
		return nil, fmt.Errorf("%w: unsupported config format: %s, only .toml is supported", ErrFailedToLoadConfig, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}

	return NewConfigFromBytes(data)
}

// NewConfigFromReader loads and validates TOML data from r.
func NewConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config data from reader: %w", ErrFailedToLoadConfig, err)
	}

	return NewConfigFromBytes(data)
}

// NewConfigFromBytes loads and validates TOML data.
func NewConfigFromBytes(data []byte) (*Config, error) {
	var versionCheck struct {
		Version string `toml:"version"`
	}

	if err := toml.Unmarshal(data, &versionCheck); err != nil {
		return nil, fmt.Errorf("%w: failed to parse version from TOML config: %w", ErrFailedToLoadConfig, err)
	}

	if versionCheck.Version != "" && versionCheck.Version != VersionLatest {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigVer, versionCheck.Version)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToValidateConfig, err)
	}

	return cfg, nil
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
