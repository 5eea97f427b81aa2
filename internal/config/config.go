// Package config loads the TOML engine configuration: logging, execution
// strategy and the data sources (static tables, SQL databases) the engine
// fetches from.
package config

import (
	"fmt"
	"strings"

	"field-assembler/internal/property"
)

// VersionLatest is the only supported configuration version.
const VersionLatest = "v1"

// Execution strategies.
const (
	StrategySequential = "sequential"
	StrategyUnordered  = "unordered"
)

// Config is the engine configuration.
type Config struct {
	Version        string      `toml:"version"`
	LogLevel       string      `toml:"log_level"`
	LogFormat      string      `toml:"log_format"`
	Strategy       string      `toml:"strategy"`
	MaxConcurrency int         `toml:"max_concurrency"`
	Conversions    []string    `toml:"conversions"` // property.Category names; empty selects the defaults
	Tables         []Table     `toml:"tables"`
	SQL            []SQLSource `toml:"sql"`
}

// Table is one static lookup table. Tables sharing an id form one
// namespace-scoped container.
type Table struct {
	ID        string           `toml:"id"`
	Namespace string           `toml:"namespace"`
	Key       string           `toml:"key"`
	Value     string           `toml:"value"` // optional; empty stores the whole row
	Rows      []map[string]any `toml:"rows"`
}

// SQLSource is one database exposed as a namespace-scoped container.
type SQLSource struct {
	ID     string     `toml:"id"`
	Driver string     `toml:"driver"`
	DSN    string     `toml:"dsn"`
	Tables []SQLTable `toml:"tables"`
}

// SQLTable maps a namespace onto a database table.
type SQLTable struct {
	Namespace string   `toml:"namespace"`
	Table     string   `toml:"table"`
	Key       string   `toml:"key"`
	Columns   []string `toml:"columns"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()

	return c
}

func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = VersionLatest
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.LogFormat == "" {
		c.LogFormat = "text"
	}

	if c.Strategy == "" {
		c.Strategy = StrategySequential
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
	c.LogFormat = strings.ToLower(c.LogFormat)
	c.Strategy = strings.ToLower(c.Strategy)

	for i := range c.SQL {
		if c.SQL[i].Driver == "" {
			c.SQL[i].Driver = "sqlite"
		}
	}
}

// String returns a one-line summary.
func (c *Config) String() string {
	return fmt.Sprintf("config %s: strategy=%s tables=%d sql=%d", c.Version, c.Strategy, len(c.Tables), len(c.SQL))
}

// Categories returns the conversion categories written values may use.
func (c *Config) Categories() (property.Category, error) {
	if len(c.Conversions) == 0 {
		return property.CategoryDefault, nil
	}

	return property.ParseCategories(c.Conversions...)
}
