package expression

import (
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"
)

// Variable names bound for every expression.
const (
	VarTarget    = "target"
	VarSource    = "source"
	VarKey       = "key"
	VarResource  = "resource"
	VarReference = "reference"
	VarValue     = "value"
)

// Variables lists every bound variable name.
var Variables = []string{VarTarget, VarSource, VarKey, VarResource, VarReference, VarValue}

// EnvOption is a function that modifies the environment options.
type EnvOption func(*envOptions)

type envOptions struct {
	customDeclarations []cel.EnvOption
}

// WithCustomDeclarations adds custom declarations (functions, variables) to the CEL environment.
func WithCustomDeclarations(declarations ...cel.EnvOption) EnvOption {
	return func(opts *envOptions) {
		opts.customDeclarations = append(opts.customDeclarations, declarations...)
	}
}

// DefaultEnvironment returns the CEL environment used for override expressions.
func DefaultEnvironment(options ...EnvOption) (*cel.Env, error) {
	declarations := []cel.EnvOption{
		ext.Lists(),
		ext.Strings(),
		ext.Encoders(),
		cel.OptionalTypes(),
	}

	opts := &envOptions{}
	for _, opt := range options {
		opt(opts)
	}

	declarations = append(declarations, opts.customDeclarations...)

	for _, name := range Variables {
		declarations = append(declarations, cel.Variable(name, cel.DynType))
	}

	return cel.NewEnv(declarations...)
}
