package chain

import (
	"log/slog"

	"field-assembler/internal/property"
)

// Option configures a Chain.
type Option func(*Chain)

// WithHandlers adds handlers; they are sorted with the defaults by priority.
func WithHandlers(handlers ...Handler) Option {
	return func(c *Chain) {
		c.handlers = append(c.handlers, handlers...)
	}
}

// WithInterceptors appends interceptors, run in the given order.
func WithInterceptors(interceptors ...Interceptor) Option {
	return func(c *Chain) {
		c.interceptors = append(c.interceptors, interceptors...)
	}
}

// WithConverter sets the converter applied to written values.
func WithConverter(conv *property.Converter) Option {
	return func(c *Chain) {
		if conv != nil {
			c.converter = conv
		}
	}
}

// WithLogger sets the logger for the chain.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chain) {
		if logger != nil {
			c.logger = logger.WithGroup("chain")
		}
	}
}

// WithLogHandler creates a new logger with the specified handler.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Chain) {
		if handler != nil {
			c.logger = slog.New(handler).WithGroup("chain")
		}
	}
}
