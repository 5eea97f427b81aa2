package config

import (
	"errors"
	"fmt"

	"field-assembler/internal/logging"
)

// Validate reports every problem found in the configuration.
func (c *Config) Validate() error {
	var errs []error

	if c.Version != VersionLatest {
		errs = append(errs, fmt.Errorf("%w: %s", ErrUnsupportedConfigVer, c.Version))
	}

	if err := logging.ValidateLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if c.LogFormat != logging.FormatText && c.LogFormat != logging.FormatJSON {
		errs = append(errs, fmt.Errorf("invalid log format %q", c.LogFormat))
	}

	if c.Strategy != StrategySequential && c.Strategy != StrategyUnordered {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidStrategy, c.Strategy))
	}

	if c.MaxConcurrency < 0 {
		errs = append(errs, fmt.Errorf("max_concurrency must not be negative, got %d", c.MaxConcurrency))
	}

	if _, err := c.Categories(); err != nil {
		errs = append(errs, err)
	}

	errs = append(errs, c.validateTables()...)
	errs = append(errs, c.validateSQL()...)

	return errors.Join(errs...)
}

func (c *Config) validateTables() []error {
	var errs []error

	seen := map[[2]string]bool{}

	for i, t := range c.Tables {
		if t.ID == "" {
			errs = append(errs, fmt.Errorf("tables[%d]: %w", i, ErrEmptyID))
			continue
		}

		if t.Key == "" {
			errs = append(errs, fmt.Errorf("table %s/%s: %w", t.ID, t.Namespace, ErrMissingKey))
		}

		k := [2]string{t.ID, t.Namespace}
		if seen[k] {
			errs = append(errs, fmt.Errorf("table %s: %w %q", t.ID, ErrDuplicateNamespace, t.Namespace))
		}

		seen[k] = true

		for j, row := range t.Rows {
			if _, ok := row[t.Key]; !ok && t.Key != "" {
				errs = append(errs, fmt.Errorf("table %s/%s: row %d has no %q column", t.ID, t.Namespace, j, t.Key))
			}
		}
	}

	return errs
}

func (c *Config) validateSQL() []error {
	var errs []error

	ids := map[string]bool{}
	for _, t := range c.Tables {
		ids[t.ID] = true
	}

	for i, s := range c.SQL {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("sql[%d]: %w", i, ErrEmptyID))
			continue
		}

		if ids[s.ID] {
			errs = append(errs, fmt.Errorf("sql %s: %w", s.ID, ErrDuplicateID))
		}

		ids[s.ID] = true

		if s.DSN == "" {
			errs = append(errs, fmt.Errorf("sql %s: empty dsn", s.ID))
		}

		namespaces := map[string]bool{}

		for _, t := range s.Tables {
			if t.Namespace == "" || t.Table == "" {
				errs = append(errs, fmt.Errorf("sql %s: table needs namespace and table", s.ID))
			}

			if t.Key == "" {
				errs = append(errs, fmt.Errorf("sql %s/%s: %w", s.ID, t.Namespace, ErrMissingKey))
			}

			if namespaces[t.Namespace] {
				errs = append(errs, fmt.Errorf("sql %s: %w %q", s.ID, ErrDuplicateNamespace, t.Namespace))
			}

			namespaces[t.Namespace] = true
		}
	}

	return errs
}
