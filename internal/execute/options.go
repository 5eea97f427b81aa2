package execute

import (
	"log/slog"

	"field-assembler/internal/chain"
	"field-assembler/internal/metrics"
)

// Option configures a Driver.
type Option func(*Driver)

// WithChain sets the accessor chain used for every read and write.
func WithChain(c *chain.Chain) Option {
	return func(d *Driver) {
		if c != nil {
			d.chain = c
		}
	}
}

// WithStrategy sets the assemble ordering strategy.
func WithStrategy(s Strategy) Option {
	return func(d *Driver) {
		d.strategy = s
	}
}

// WithMaxConcurrency bounds the concurrent fetches of an unordered pass.
// Zero or less means unbounded.
func WithMaxConcurrency(n int) Option {
	return func(d *Driver) {
		d.maxConcurrency = n
	}
}

// WithMetrics records fetches, writes and executions.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Driver) {
		d.metrics = m
	}
}

// WithLogger sets the logger for the driver.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.baseLogger = logger
		}
	}
}

// WithLogHandler creates a new logger with the specified handler.
func WithLogHandler(handler slog.Handler) Option {
	return func(d *Driver) {
		if handler != nil {
			d.baseLogger = slog.New(handler)
		}
	}
}
