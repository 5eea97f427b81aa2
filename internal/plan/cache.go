package plan

import (
	"sync"

	"field-assembler/internal/analyze"
)

// Cache memoizes resolved configurations by type identity. Concurrent first
// callers may both resolve a type; the last write wins.
type Cache struct {
	mu      sync.RWMutex
	configs map[analyze.TypeID]*OperationConfiguration
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{configs: map[analyze.TypeID]*OperationConfiguration{}}
}

// Get returns the cached configuration of id.
func (c *Cache) Get(id analyze.TypeID) (*OperationConfiguration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cfg, ok := c.configs[id]

	return cfg, ok
}

// Put stores cfg under its type identity.
func (c *Cache) Put(cfg *OperationConfiguration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.configs[cfg.Type.ID] = cfg
}

// Len returns the number of cached configurations.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.configs)
}

// Reset drops every cached configuration.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.configs)
}

// ParseContext maps type identities to the configurations being built by one
// root resolution. It lives for a single Resolve call.
type ParseContext struct {
	configs map[analyze.TypeID]*OperationConfiguration
	order   []*OperationConfiguration
}

func newParseContext() *ParseContext {
	return &ParseContext{configs: map[analyze.TypeID]*OperationConfiguration{}}
}

func (pc *ParseContext) get(id analyze.TypeID) (*OperationConfiguration, bool) {
	cfg, ok := pc.configs[id]
	return cfg, ok
}

func (pc *ParseContext) put(cfg *OperationConfiguration) {
	pc.configs[cfg.Type.ID] = cfg
	pc.order = append(pc.order, cfg)
}
