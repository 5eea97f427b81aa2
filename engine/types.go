package engine

import (
	"context"

	"field-assembler/internal/assemble"
	"field-assembler/internal/container"
	"field-assembler/internal/diagnostic"
	"field-assembler/internal/execute"
	"field-assembler/internal/plan"
	"field-assembler/internal/property"
)

type (
	// Container is a batch data source.
	Container = container.Container
	// Scope says how a container partitions its keys.
	Scope = container.Scope
	// LoaderFunc fetches the values of a batch of keys for one namespace.
	LoaderFunc = container.LoaderFunc
	// SQLTable maps a namespace onto a database table.
	SQLTable = container.SQLTable
	// Assembler turns key fields into lookup keys and found values into the written value.
	Assembler = assemble.Assembler
	// Disassembler expands nested fields into the instances to enrich.
	Disassembler = assemble.Disassembler
	// Configuration is the resolved plan of one type.
	Configuration = plan.OperationConfiguration
	// Summary is a printable projection of a configuration.
	Summary = plan.Summary
	// ResolveError describes a configuration that cannot be resolved.
	ResolveError = plan.ResolveError
	// Report is the outcome of one execution.
	Report = execute.Report
	// Strategy orders the assemble operations of a configuration.
	Strategy = execute.Strategy
	// Diagnostics collects errors and warnings.
	Diagnostics = diagnostic.Diagnostics
	// Diagnostic is a single entry of Diagnostics.
	Diagnostic = diagnostic.Diagnostic
	// Category selects conversion families for written values.
	Category = property.Category
)

const (
	ScopeKey       = container.ScopeKey
	ScopeNamespace = container.ScopeNamespace
	ScopeSelf      = container.ScopeSelf

	Sequential = execute.Sequential
	Unordered  = execute.Unordered

	CategoryDefault     = property.CategoryDefault
	CategoryAll         = property.CategoryAll
	CategoryTextualBool = property.CategoryTextualBool
	CategoryNumericBool = property.CategoryNumericBool
	CategoryDatetime    = property.CategoryDatetime
	CategoryTimestamp   = property.CategoryTimestamp
	CategoryDuration    = property.CategoryDuration
	CategoryEnumString  = property.CategoryEnumString
)

var (
	ErrConfigConflict     = plan.ErrConfigConflict
	ErrMissingDeclaration = plan.ErrMissingDeclaration
	ErrUnknownNamespace   = container.ErrUnknownNamespace
)

// NewMap creates a key-scoped container holding entries.
func NewMap[K comparable, V any](id string, entries map[K]V) *container.Map {
	return container.NewMap(id, entries)
}

// NewTables creates an empty namespace-scoped container of static tables;
// fill it with AddTable.
func NewTables(id string) *container.Tables {
	return container.NewTables(id)
}

// AddTable registers a table of t under namespace.
func AddTable[K comparable, V any](t *container.Tables, namespace string, rows map[K]V) {
	container.AddTable(t, namespace, rows)
}

// NewEnums creates an empty namespace-scoped enum dictionary; fill it with
// RegisterEnum.
func NewEnums(id string) *container.Enums {
	return container.NewEnums(id)
}

// RegisterEnum adds the values of an enum type keyed by key. An empty
// namespace defaults to the enum type name, which is returned.
func RegisterEnum[E any](e *container.Enums, namespace string, values []E, key func(E) any) string {
	return container.RegisterEnum(e, namespace, values, key)
}

// NewLoaders creates an empty namespace-scoped container of batch loader
// functions; register them with Register or Loader.
func NewLoaders(id string) *container.Loaders {
	return container.NewLoaders(id)
}

// Loader adapts a typed batch function to a LoaderFunc.
func Loader[K comparable, V any](fn func(ctx context.Context, keys []K) (map[K]V, error)) LoaderFunc {
	return container.Loader(fn)
}

// ParseStrategy parses "sequential" or "unordered".
func ParseStrategy(name string) (Strategy, error) {
	return execute.ParseStrategy(name)
}

// Summarize projects cfg and every configuration it reaches.
func Summarize(cfg *Configuration) []Summary {
	return plan.Summarize(cfg)
}
