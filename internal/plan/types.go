package plan

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"field-assembler/internal/analyze"
	"field-assembler/internal/assemble"
	"field-assembler/internal/container"
)

// Defaults are the global settings shared by every configuration of a resolver.
type Defaults struct {
	// Assembler id used by rules that name none.
	Assembler string
	// Disassembler id used by rules that name none.
	Disassembler string
	// Groups assigned to rules that declare none.
	Groups []string
}

// OperationConfiguration is the resolved enrichment plan of one type.
// It is immutable once Complete reports true and may be shared by any number
// of other configurations.
type OperationConfiguration struct {
	// Type is the enriched type.
	Type analyze.Type
	// AssembleOperations in ascending priority.
	AssembleOperations []*AssembleOperation
	// DisassembleOperations in ascending priority.
	DisassembleOperations []*DisassembleOperation
	// Defaults shared with the resolver that built this configuration.
	Defaults *Defaults

	complete bool
}

// Complete reports whether resolution of this configuration has finished.
func (c *OperationConfiguration) Complete() bool {
	return c.complete
}

// IsEmpty reports whether the configuration holds no operation.
func (c *OperationConfiguration) IsEmpty() bool {
	return len(c.AssembleOperations) == 0 && len(c.DisassembleOperations) == 0
}

// Assemble returns the assemble operations eligible for the active groups.
// An empty active set selects every operation.
func (c *OperationConfiguration) Assemble(active []string) []*AssembleOperation {
	return lo.Filter(c.AssembleOperations, func(op *AssembleOperation, _ int) bool {
		return eligible(op.Groups, active)
	})
}

// Disassemble returns the disassemble operations eligible for the active groups.
// An empty active set selects every operation.
func (c *OperationConfiguration) Disassemble(active []string) []*DisassembleOperation {
	return lo.Filter(c.DisassembleOperations, func(op *DisassembleOperation, _ int) bool {
		return eligible(op.Groups, active)
	})
}

func eligible(groups, active []string) bool {
	return len(active) == 0 || lo.Some(groups, active)
}

func (c *OperationConfiguration) sortOperations() {
	slices.SortStableFunc(c.AssembleOperations, func(a, b *AssembleOperation) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	slices.SortStableFunc(c.DisassembleOperations, func(a, b *DisassembleOperation) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
}

// AssembleOperation fills one field of the owner's type from a container.
type AssembleOperation struct {
	// Priority orders operations ascending.
	Priority int
	// Owner is the configuration holding this operation.
	Owner *OperationConfiguration
	// Field holds the lookup key; it is also the default write target.
	Field string
	// Aliases are fallback field names tried in order.
	Aliases []string
	// Namespace selects the dataset within a namespaced container.
	Namespace string
	// Container is the data source.
	Container container.Container
	// Assembler turns key field values into keys and found values into the value to place.
	Assembler assemble.Assembler
	// Mappings are the value transfers, never empty.
	Mappings []PropertyMapping
	// Groups the operation is eligible in.
	Groups []string
}

// String identifies the operation in logs and reports.
func (op *AssembleOperation) String() string {
	return fmt.Sprintf("%s.%s<-%s", ownerName(op.Owner), op.Field, op.Container.ID())
}

// FieldNames returns the field followed by its aliases.
func (op *AssembleOperation) FieldNames() []string {
	return append([]string{op.Field}, op.Aliases...)
}

// DisassembleOperation expands a nested field for recursive enrichment.
// When Nested is nil the operation is dynamic: the nested configuration is
// resolved at execution time from the runtime type of each nested value.
type DisassembleOperation struct {
	// Priority orders operations ascending.
	Priority int
	// Owner is the configuration holding this operation.
	Owner *OperationConfiguration
	// Field holds the nested value(s).
	Field string
	// Aliases are fallback field names tried in order.
	Aliases []string
	// Disassembler expands the field value into nested instances.
	Disassembler assemble.Disassembler
	// Nested is the configuration applied to nested instances; nil when dynamic.
	Nested *OperationConfiguration
	// Groups the operation is eligible in.
	Groups []string
}

// IsDynamic reports whether the nested configuration is resolved at execution time.
func (op *DisassembleOperation) IsDynamic() bool {
	return op.Nested == nil
}

// String identifies the operation in logs and reports.
func (op *DisassembleOperation) String() string {
	nested := "<dynamic>"
	if op.Nested != nil {
		nested = op.Nested.Type.ID.Short()
	}

	return fmt.Sprintf("%s.%s->%s", ownerName(op.Owner), op.Field, nested)
}

// FieldNames returns the field followed by its aliases.
func (op *DisassembleOperation) FieldNames() []string {
	return append([]string{op.Field}, op.Aliases...)
}

// PropertyMapping describes one value transfer. Empty Resource reads the
// whole fetched value; empty Reference writes the operation's own field.
type PropertyMapping struct {
	Resource       string `json:"resource,omitempty" yaml:"resource,omitempty"`
	Reference      string `json:"reference,omitempty" yaml:"reference,omitempty"`
	Expression     string `json:"expression,omitempty" yaml:"expression,omitempty"`
	ExpressionType string `json:"expression_type,omitempty" yaml:"expression_type,omitempty"`
}

// IsIdentity reports whether the mapping assigns the whole value to the whole field.
func (m PropertyMapping) IsIdentity() bool {
	return m.Resource == "" && m.Reference == "" && m.Expression == ""
}

func ownerName(c *OperationConfiguration) string {
	if c == nil {
		return "<nil>"
	}

	return c.Type.ID.Short()
}
