package expression

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"field-assembler/internal/property"
)

// Bindings are the values an expression is evaluated against.
type Bindings struct {
	Target    any
	Source    any
	Key       any
	Resource  string
	Reference string
	Value     any
}

func (b Bindings) activation() map[string]any {
	return map[string]any{
		VarTarget:    property.Export(b.Target),
		VarSource:    property.Export(b.Source),
		VarKey:       b.Key,
		VarResource:  b.Resource,
		VarReference: b.Reference,
		VarValue:     property.Export(b.Value),
	}
}

// Expression wraps a CEL expression with its compiled program.
// Programs are thread-safe, so an Expression may be evaluated concurrently.
type Expression struct {
	// Original is the raw CEL expression string, preserved for error messages.
	Original string

	// Program is the compiled CEL program.
	Program cel.Program
}

// Eval evaluates the compiled expression and returns the result as Go values.
func (e *Expression) Eval(b Bindings) (any, error) {
	out, _, err := e.Program.Eval(b.activation())
	if err != nil {
		return nil, fmt.Errorf("eval %q: %w", e.Original, err)
	}

	native, err := GoNativeType(out)
	if err != nil {
		return nil, fmt.Errorf("convert %q: %w", e.Original, err)
	}

	return native, nil
}

// Evaluator compiles expressions on first use and caches the programs by text.
type Evaluator struct {
	env      *cel.Env
	programs sync.Map // string -> *Expression
}

// NewEvaluator creates an Evaluator over the default environment.
func NewEvaluator(options ...EnvOption) (*Evaluator, error) {
	env, err := DefaultEnvironment(options...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return &Evaluator{env: env}, nil
}

// Compile returns the compiled program for text, compiling it at most once
// per Evaluator (concurrent first callers may both compile; one result is kept).
func (ev *Evaluator) Compile(text string) (*Expression, error) {
	if cached, ok := ev.programs.Load(text); ok {
		return cached.(*Expression), nil
	}

	ast, iss := ev.env.Compile(text)
	if iss.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", text, iss.Err())
	}

	prg, err := ev.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", text, err)
	}

	expr := &Expression{Original: text, Program: prg}
	actual, _ := ev.programs.LoadOrStore(text, expr)

	return actual.(*Expression), nil
}

// Eval compiles (or reuses) text and evaluates it against b, coercing the
// result to resultType.
func (ev *Evaluator) Eval(text, resultType string, b Bindings) (any, error) {
	expr, err := ev.Compile(text)
	if err != nil {
		return nil, err
	}

	v, err := expr.Eval(b)
	if err != nil {
		return nil, err
	}

	return Coerce(v, resultType)
}
