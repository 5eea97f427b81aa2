// Package engine is the entry point of the field assembler: a declarative
// data-enrichment engine.
//
// Rules, declared per type in YAML, say which fields of an object are filled
// from which data source ("container"), keyed by which field, and which
// nested fields hold further objects to enrich. The engine resolves the rules
// of a type into an operation configuration once, caches it, and executes it
// against batches of objects: every container is asked once per batch with
// the deduplicated keys of all objects awaiting it.
//
// A minimal setup:
//
//	e, err := engine.New(
//		engine.WithRulesFile("rules.yaml"),
//		engine.WithContainers(engine.NewMap("users", users)),
//		engine.WithTypes(Order{}),
//	)
//	if err != nil {
//		return err
//	}
//
//	report, err := e.Execute(ctx, orders)
//
// Execution never fails on data: unreachable containers and values that
// cannot be written are isolated, logged and returned in the report's
// diagnostics. Configuration problems (conflicting or dangling rules) are
// returned as errors wrapping ErrConfigConflict or ErrMissingDeclaration.
package engine
