package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"field-assembler/internal/analyze"
	"field-assembler/internal/assemble"
	"field-assembler/internal/chain"
	"field-assembler/internal/config"
	"field-assembler/internal/container"
	"field-assembler/internal/diagnostic"
	"field-assembler/internal/execute"
	"field-assembler/internal/expression"
	"field-assembler/internal/metrics"
	"field-assembler/internal/plan"
	"field-assembler/internal/property"
	"field-assembler/internal/rules"
)

// Engine resolves and executes enrichment rules. It is safe for concurrent
// use; independent batches may be executed in parallel.
type Engine struct {
	file       *rules.File
	components *plan.Components
	types      *analyze.Registry
	resolver   *plan.Resolver
	driver     *execute.Driver
	sources    *config.Sources
	logger     *slog.Logger
}

// New creates an engine. Without rules every type resolves to an empty
// configuration.
func New(opts ...Option) (*Engine, error) {
	s := &settings{
		categories: property.CategoryDefault,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		file:   s.file,
		types:  analyze.NewRegistry(),
		logger: s.logger.WithGroup("engine"),
	}

	e.types.RegisterValues(s.types...)

	if s.config != nil {
		sources, err := s.config.Build()
		if err != nil {
			return nil, err
		}

		e.sources = sources
		s.containers = append(sources.Containers, s.containers...)
	}

	components, err := newComponents(s)
	if err != nil {
		_ = e.Close()
		return nil, err
	}

	e.components = components

	defaults := plan.DefaultDefaults()
	if len(s.groups) > 0 {
		defaults.Groups = s.groups
	}

	e.resolver = plan.NewResolver(s.rules, components,
		plan.WithTypes(e.types),
		plan.WithDefaults(defaults),
		plan.WithLogger(s.logger))

	evaluator, err := expression.NewEvaluator()
	if err != nil {
		_ = e.Close()
		return nil, fmt.Errorf("expression environment: %w", err)
	}

	var m *metrics.Metrics
	if s.registerer != nil {
		m = metrics.New()
		if err := m.Register(s.registerer); err != nil {
			_ = e.Close()
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	ch := chain.New(
		chain.WithConverter(property.NewConverter(s.categories, s.casters...)),
		chain.WithInterceptors(chain.ExpressionInterceptor{Evaluator: evaluator}),
		chain.WithLogger(s.logger),
	)

	e.driver = execute.NewDriver(e.resolver,
		execute.WithChain(ch),
		execute.WithStrategy(s.strategy),
		execute.WithMaxConcurrency(s.maxConcurrency),
		execute.WithMetrics(m),
		execute.WithLogger(s.logger))

	e.logger.Debug("engine ready",
		"rules", s.rulesPath,
		"containers", components.Containers(),
		"strategy", s.strategy.String(),
		"conversions", s.categories.String())

	return e, nil
}

func newComponents(s *settings) (*plan.Components, error) {
	containers := container.NewRegistry()

	for _, c := range s.containers {
		if err := containers.Register(c); err != nil {
			return nil, err
		}
	}

	if _, ok := containers.Lookup(container.SelfID); !ok {
		_ = containers.Register(container.NewSelf(container.SelfID))
	}

	strategies := assemble.NewRegistry()

	for _, a := range s.assemblers {
		if err := strategies.RegisterAssembler(a); err != nil {
			return nil, err
		}
	}

	for _, d := range s.disassemblers {
		if err := strategies.RegisterDisassembler(d); err != nil {
			return nil, err
		}
	}

	return plan.NewComponents(containers, strategies), nil
}

// Close releases the data sources opened from a configuration.
func (e *Engine) Close() error {
	if e.sources == nil {
		return nil
	}

	return e.sources.Close()
}

// RegisterTypes registers Go types by sample value for name lookups.
func (e *Engine) RegisterTypes(values ...any) {
	e.types.RegisterValues(values...)
}

// RegisterContainer adds a data source after construction.
func (e *Engine) RegisterContainer(c Container) error {
	return e.components.ContainerRegistry().Register(c)
}

// Strategy returns the configured assemble ordering.
func (e *Engine) Strategy() Strategy {
	return e.driver.Strategy()
}

// Validate checks the rule declarations against the registered components.
// Engines built from a rule source other than a rules file report nothing.
func (e *Engine) Validate() *Diagnostics {
	if e.file == nil {
		return &diagnostic.Diagnostics{}
	}

	return rules.Validate(e.file, e.components)
}

// Configuration resolves the configuration of the Go type of v (a value or a
// reflect.Type).
func (e *Engine) Configuration(v any) (*Configuration, error) {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}

	if t == nil {
		return nil, errors.New("engine: configuration of nil")
	}

	return e.resolver.Resolve(analyze.TypeOf(t))
}

// ConfigurationByName resolves a declared type name: a registered Go type, or
// a logical type used for map documents.
func (e *Engine) ConfigurationByName(name string) (*Configuration, error) {
	return e.resolver.ResolveName(name)
}

// ConfigurationFor resolves the configuration of T.
func ConfigurationFor[T any](e *Engine) (*Configuration, error) {
	return e.resolver.Resolve(analyze.TypeFor[T]())
}

// Execute enriches input: a pointer to a struct, or a slice of pointers or
// structs (mixed types are resolved per type). Only configuration problems
// and a cancelled context return an error.
func (e *Engine) Execute(ctx context.Context, input any, groups ...string) (*Report, error) {
	return e.driver.ExecuteInferred(ctx, input, groups)
}

// ExecuteAs enriches input with the configuration of the named type. Use it
// for map documents, which carry no Go type.
func (e *Engine) ExecuteAs(ctx context.Context, typeName string, input any, groups ...string) (*Report, error) {
	cfg, err := e.resolver.ResolveName(typeName)
	if err != nil {
		return nil, err
	}

	return e.driver.Execute(ctx, input, cfg, groups)
}

// ExecuteWith enriches input with a previously resolved configuration.
func (e *Engine) ExecuteWith(ctx context.Context, cfg *Configuration, input any, groups ...string) (*Report, error) {
	return e.driver.Execute(ctx, input, cfg, groups)
}

// NewSQL creates a namespace-scoped container over db.
func NewSQL(id string, db *sql.DB, tables ...SQLTable) (Container, error) {
	return container.NewSQL(id, db, tables...)
}
