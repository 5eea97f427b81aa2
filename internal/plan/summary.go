package plan

import (
	"github.com/davecgh/go-spew/spew"
)

// Summary is a flat, acyclic projection of an OperationConfiguration used for
// printing and comparisons.
type Summary struct {
	Type        string               `json:"type" yaml:"type"`
	Assemble    []AssembleSummary    `json:"assemble,omitempty" yaml:"assemble,omitempty"`
	Disassemble []DisassembleSummary `json:"disassemble,omitempty" yaml:"disassemble,omitempty"`
}

// AssembleSummary projects an AssembleOperation.
type AssembleSummary struct {
	Field     string            `json:"field" yaml:"field"`
	Aliases   []string          `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Container string            `json:"container" yaml:"container"`
	Namespace string            `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Assembler string            `json:"assembler" yaml:"assembler"`
	Mappings  []PropertyMapping `json:"mappings" yaml:"mappings"`
	Groups    []string          `json:"groups" yaml:"groups"`
	Priority  int               `json:"priority" yaml:"priority"`
}

// DisassembleSummary projects a DisassembleOperation. Nested is the nested
// type identity, empty when dynamic.
type DisassembleSummary struct {
	Field        string   `json:"field" yaml:"field"`
	Aliases      []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Disassembler string   `json:"disassembler" yaml:"disassembler"`
	Nested       string   `json:"nested,omitempty" yaml:"nested,omitempty"`
	Groups       []string `json:"groups" yaml:"groups"`
	Priority     int      `json:"priority" yaml:"priority"`
}

// Summarize projects cfg and every configuration reachable from it, in
// breadth-first order starting with cfg. Each configuration appears once.
func Summarize(cfg *OperationConfiguration) []Summary {
	var out []Summary

	seen := map[*OperationConfiguration]bool{cfg: true}
	queue := []*OperationConfiguration{cfg}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		out = append(out, summarizeOne(c))

		for _, op := range c.DisassembleOperations {
			if op.Nested != nil && !seen[op.Nested] {
				seen[op.Nested] = true
				queue = append(queue, op.Nested)
			}
		}
	}

	return out
}

func summarizeOne(c *OperationConfiguration) Summary {
	s := Summary{Type: c.Type.String()}

	for _, op := range c.AssembleOperations {
		s.Assemble = append(s.Assemble, AssembleSummary{
			Field:     op.Field,
			Aliases:   op.Aliases,
			Container: op.Container.ID(),
			Namespace: op.Namespace,
			Assembler: op.Assembler.ID(),
			Mappings:  op.Mappings,
			Groups:    op.Groups,
			Priority:  op.Priority,
		})
	}

	for _, op := range c.DisassembleOperations {
		ds := DisassembleSummary{
			Field:        op.Field,
			Aliases:      op.Aliases,
			Disassembler: op.Disassembler.ID(),
			Groups:       op.Groups,
			Priority:     op.Priority,
		}

		if op.Nested != nil {
			ds.Nested = op.Nested.Type.String()
		}

		s.Disassemble = append(s.Disassemble, ds)
	}

	return s
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump renders the summaries of cfg and everything it reaches for debugging.
func Dump(cfg *OperationConfiguration) string {
	return dumpConfig.Sdump(Summarize(cfg))
}
