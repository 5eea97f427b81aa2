package engine

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"field-assembler/internal/assemble"
	"field-assembler/internal/config"
	"field-assembler/internal/container"
	"field-assembler/internal/execute"
	"field-assembler/internal/property"
	"field-assembler/internal/rules"
)

// Option configures an Engine.
type Option func(*settings) error

type settings struct {
	rules          rules.Source
	file           *rules.File
	rulesPath      string
	containers     []container.Container
	assemblers     []assemble.Assembler
	disassemblers  []assemble.Disassembler
	types          []any
	strategy       execute.Strategy
	maxConcurrency int
	categories     property.Category
	casters        []property.Caster
	groups         []string
	registerer     prometheus.Registerer
	config         *config.Config
	logger         *slog.Logger
}

// WithRules sets the rule declaration source.
func WithRules(src rules.Source) Option {
	return func(s *settings) error {
		s.rules = src
		if f, ok := src.(*rules.File); ok {
			s.file = f
		}

		return nil
	}
}

// WithRulesFile loads the rule declarations from a YAML file.
func WithRulesFile(path string) Option {
	return func(s *settings) error {
		f, err := rules.LoadFile(path)
		if err != nil {
			return err
		}

		s.rules, s.file, s.rulesPath = f, f, path

		return nil
	}
}

// WithRulesYAML parses the rule declarations from YAML data.
func WithRulesYAML(data []byte) Option {
	return func(s *settings) error {
		f, err := rules.Parse(data)
		if err != nil {
			return err
		}

		s.rules, s.file = f, f

		return nil
	}
}

// WithContainers registers data sources. Ids must be unique.
func WithContainers(cs ...Container) Option {
	return func(s *settings) error {
		s.containers = append(s.containers, cs...)
		return nil
	}
}

// WithAssemblers registers extra assemblers next to the stock ones.
func WithAssemblers(as ...Assembler) Option {
	return func(s *settings) error {
		s.assemblers = append(s.assemblers, as...)
		return nil
	}
}

// WithDisassemblers registers extra disassemblers next to the stock one.
func WithDisassemblers(ds ...Disassembler) Option {
	return func(s *settings) error {
		s.disassemblers = append(s.disassemblers, ds...)
		return nil
	}
}

// WithTypes registers Go types (by sample value) so that rules can name them
// as nested types and ExecuteAs can find them by name.
func WithTypes(values ...any) Option {
	return func(s *settings) error {
		s.types = append(s.types, values...)
		return nil
	}
}

// WithStrategy sets the assemble ordering strategy. Sequential is the default.
func WithStrategy(st Strategy) Option {
	return func(s *settings) error {
		s.strategy = st
		return nil
	}
}

// WithMaxConcurrency bounds the concurrent fetches of the unordered strategy.
func WithMaxConcurrency(n int) Option {
	return func(s *settings) error {
		if n < 0 {
			return fmt.Errorf("max concurrency must not be negative, got %d", n)
		}

		s.maxConcurrency = n

		return nil
	}
}

// WithConversions selects the conversions applied to written values.
func WithConversions(c Category) Option {
	return func(s *settings) error {
		s.categories = c
		return nil
	}
}

// WithCasters registers conversion functions of the form func(S) D,
// func(S) (D, bool), func(S) (D, error) or func(S) (D, bool, error).
func WithCasters(fns ...any) Option {
	return func(s *settings) error {
		for _, fn := range fns {
			c, err := property.ParseCaster(fn)
			if err != nil {
				return fmt.Errorf("caster %T: %w", fn, err)
			}

			s.casters = append(s.casters, c)
		}

		return nil
	}
}

// WithDefaultGroups sets the groups assigned to rules that declare none.
func WithDefaultGroups(groups ...string) Option {
	return func(s *settings) error {
		s.groups = groups
		return nil
	}
}

// WithMetrics registers the engine collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *settings) error {
		s.registerer = reg
		return nil
	}
}

// WithConfig applies an engine configuration: strategy, concurrency,
// conversions and the containers it declares. Explicit options given after
// it take precedence.
func WithConfig(cfg *config.Config) Option {
	return func(s *settings) error {
		if cfg == nil {
			return nil
		}

		st, err := execute.ParseStrategy(cfg.Strategy)
		if err != nil {
			return err
		}

		categories, err := cfg.Categories()
		if err != nil {
			return err
		}

		s.strategy = st
		s.maxConcurrency = cfg.MaxConcurrency
		s.categories = categories
		s.config = cfg

		return nil
	}
}

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) error {
		if logger != nil {
			s.logger = logger
		}

		return nil
	}
}

// WithLogHandler creates a new logger with the specified handler.
func WithLogHandler(handler slog.Handler) Option {
	return func(s *settings) error {
		if handler != nil {
			s.logger = slog.New(handler)
		}

		return nil
	}
}
