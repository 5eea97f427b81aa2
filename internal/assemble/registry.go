package assemble

import (
	"fmt"
	"slices"
	"sync"
)

// Registry locates assemblers and disassemblers by id. Empty ids select the
// defaults (one-to-one, flatten).
type Registry struct {
	mu            sync.RWMutex
	assemblers    map[string]Assembler
	disassemblers map[string]Disassembler
}

// NewRegistry creates a registry holding the stock strategies.
func NewRegistry() *Registry {
	return &Registry{
		assemblers: map[string]Assembler{
			OneToOneID:   OneToOne{},
			ManyToManyID: ManyToMany{},
		},
		disassemblers: map[string]Disassembler{
			FlattenID: Flatten{},
		},
	}
}

// RegisterAssembler adds a, failing if its id is taken.
func (r *Registry) RegisterAssembler(a Assembler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assemblers[a.ID()]; ok {
		return fmt.Errorf("assembler %q already registered", a.ID())
	}

	r.assemblers[a.ID()] = a

	return nil
}

// RegisterDisassembler adds d, failing if its id is taken.
func (r *Registry) RegisterDisassembler(d Disassembler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.disassemblers[d.ID()]; ok {
		return fmt.Errorf("disassembler %q already registered", d.ID())
	}

	r.disassemblers[d.ID()] = d

	return nil
}

// Assembler returns the assembler registered under id.
func (r *Registry) Assembler(id string) (Assembler, bool) {
	if id == "" {
		id = OneToOneID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.assemblers[id]

	return a, ok
}

// Disassembler returns the disassembler registered under id.
func (r *Registry) Disassembler(id string) (Disassembler, bool) {
	if id == "" {
		id = FlattenID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.disassemblers[id]

	return d, ok
}

// AssemblerIDs returns the registered assembler ids, sorted.
func (r *Registry) AssemblerIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedKeys(r.assemblers)
}

// DisassemblerIDs returns the registered disassembler ids, sorted.
func (r *Registry) DisassemblerIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedKeys(r.disassemblers)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
