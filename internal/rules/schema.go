package rules

import (
	"sync"

	"field-assembler/internal/analyze"
)

// DefaultGroup is the group of rules that declare none.
const DefaultGroup = "default"

// KnownExpTypes lists the accepted exp_type values; empty means "as evaluated".
var KnownExpTypes = []string{"", "string", "int", "uint", "float", "bool", "list", "map", "any"}

// File represents the root of a YAML rule declaration file.
type File struct {
	// Version of the rule schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Types lists the rules declared per type.
	Types []TypeRules `yaml:"types"`

	once  sync.Once
	index map[string]int
}

// TypeRules holds the rules declared for one type.
type TypeRules struct {
	// Type identifier: full ("field-assembler/examples/store.Order"),
	// alias-qualified ("store.Order"), bare ("Order") or a logical name.
	Type string `yaml:"type"`

	// Assemble rules fill fields from containers.
	Assemble []AssembleRule `yaml:"assemble,omitempty"`

	// Disassemble rules expand nested values for separate enrichment.
	Disassemble []DisassembleRule `yaml:"disassemble,omitempty"`
}

// AssembleRule fills one field from a container.
type AssembleRule struct {
	// Field holds the lookup key; it is also the write target of props without a ref.
	Field string `yaml:"field"`

	// Aliases are fallback names tried in order when Field is absent or empty.
	Aliases StringArray `yaml:"aliases,omitempty"`

	// Container is the id of the data source.
	Container string `yaml:"container"`

	// Namespace selects a dataset within a namespaced container.
	Namespace string `yaml:"namespace,omitempty"`

	// Assembler is the value-writer strategy id; empty selects the default.
	Assembler string `yaml:"assembler,omitempty"`

	// Props describe the value transfers; empty means one identity transfer.
	Props Props `yaml:"props,omitempty"`

	// Groups restrict the rule to invocations naming one of them.
	Groups StringArray `yaml:"groups,omitempty"`

	// Priority orders operations ascending.
	Priority int `yaml:"priority,omitempty"`
}

// DisassembleRule expands a nested field for recursive enrichment.
type DisassembleRule struct {
	// Field holds the nested value(s).
	Field string `yaml:"field"`

	// Aliases are fallback names tried in order when Field is absent or empty.
	Aliases StringArray `yaml:"aliases,omitempty"`

	// Type names the nested type; empty infers it from each runtime value.
	Type string `yaml:"type,omitempty"`

	// Disassembler is the flattening strategy id; empty selects the default.
	Disassembler string `yaml:"disassembler,omitempty"`

	// Groups restrict the rule to invocations naming one of them.
	Groups StringArray `yaml:"groups,omitempty"`

	// Priority orders operations ascending.
	Priority int `yaml:"priority,omitempty"`
}

// IsDynamic reports whether the nested type is inferred at execution time.
func (r *DisassembleRule) IsDynamic() bool {
	return r.Type == ""
}

// PropRule describes one value transfer.
type PropRule struct {
	// Src is the sub-field read from the fetched value; empty reads the whole value.
	Src string `yaml:"src,omitempty"`

	// Ref is the sub-field written on the target; empty writes the rule's field.
	Ref string `yaml:"ref,omitempty"`

	// Exp is an optional override expression.
	Exp string `yaml:"exp,omitempty"`

	// ExpType is the declared result type of Exp.
	ExpType string `yaml:"exp_type,omitempty"`
}

// Props is a list of PropRule accepting shorthand strings in YAML.
type Props []PropRule

// StringArray is a string slice that can be unmarshaled from a single string or a list.
type StringArray []string

// Source enumerates the rules declared for a type.
type Source interface {
	Lookup(id analyze.TypeID) (*TypeRules, bool)
}

// Sources chains several sources; the first match wins.
type Sources []Source

// Lookup implements Source.
func (s Sources) Lookup(id analyze.TypeID) (*TypeRules, bool) {
	for _, src := range s {
		if src == nil {
			continue
		}

		if tr, ok := src.Lookup(id); ok {
			return tr, true
		}
	}

	return nil, false
}

// Lookup implements Source. A type matches by its full identity, its
// alias-qualified form or its bare name, in that order.
func (f *File) Lookup(id analyze.TypeID) (*TypeRules, bool) {
	f.once.Do(f.buildIndex)

	for _, key := range []string{id.String(), id.Short(), id.Name} {
		if i, ok := f.index[key]; ok {
			return &f.Types[i], true
		}
	}

	return nil, false
}

func (f *File) buildIndex() {
	f.index = make(map[string]int, len(f.Types))

	for i := range f.Types {
		if _, dup := f.index[f.Types[i].Type]; dup {
			continue
		}

		f.index[f.Types[i].Type] = i
	}
}
