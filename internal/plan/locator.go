package plan

import (
	"field-assembler/internal/assemble"
	"field-assembler/internal/container"
)

// Locator resolves component ids to live instances.
type Locator interface {
	Container(id string) (container.Container, bool)
	Assembler(id string) (assemble.Assembler, bool)
	Disassembler(id string) (assemble.Disassembler, bool)

	Containers() []string
	Assemblers() []string
	Disassemblers() []string
}

// Components is the Locator over a container registry and a strategy registry.
type Components struct {
	containers *container.Registry
	strategies *assemble.Registry
}

var _ Locator = (*Components)(nil)

// NewComponents creates a Locator. Nil registries are replaced by empty
// (containers) or default (strategies) ones.
func NewComponents(containers *container.Registry, strategies *assemble.Registry) *Components {
	if containers == nil {
		containers = container.NewRegistry()
	}

	if strategies == nil {
		strategies = assemble.NewRegistry()
	}

	return &Components{containers: containers, strategies: strategies}
}

// ContainerRegistry returns the underlying container registry.
func (c *Components) ContainerRegistry() *container.Registry { return c.containers }

// StrategyRegistry returns the underlying strategy registry.
func (c *Components) StrategyRegistry() *assemble.Registry { return c.strategies }

// Container implements Locator.
func (c *Components) Container(id string) (container.Container, bool) {
	return c.containers.Lookup(id)
}

// Assembler implements Locator.
func (c *Components) Assembler(id string) (assemble.Assembler, bool) {
	return c.strategies.Assembler(id)
}

// Disassembler implements Locator.
func (c *Components) Disassembler(id string) (assemble.Disassembler, bool) {
	return c.strategies.Disassembler(id)
}

// Containers implements Locator.
func (c *Components) Containers() []string { return c.containers.IDs() }

// Assemblers implements Locator.
func (c *Components) Assemblers() []string { return c.strategies.AssemblerIDs() }

// Disassemblers implements Locator.
func (c *Components) Disassemblers() []string { return c.strategies.DisassemblerIDs() }
