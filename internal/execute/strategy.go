package execute

import (
	"fmt"
	"strings"
)

// Strategy controls how the assemble operations of one configuration are
// ordered.
type Strategy int

const (
	// Sequential runs one pass per operation in priority order, so later
	// operations observe the writes of earlier ones.
	Sequential Strategy = iota
	// Unordered runs all operations in a single pass and fetches the groups
	// concurrently.
	Unordered
)

func (s Strategy) String() string {
	switch s {
	case Sequential:
		return "sequential"
	case Unordered:
		return "unordered"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses a strategy name. Empty selects Sequential.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "", "sequential":
		return Sequential, nil
	case "unordered", "any-order":
		return Unordered, nil
	default:
		return Sequential, fmt.Errorf("unknown strategy %q", name)
	}
}
