// Package execute runs resolved operation configurations against target
// instances.
//
// The Driver walks a configuration: it disassembles nested fields first,
// recursing into the nested configurations (or resolving one per runtime
// type for dynamic fields), then assembles the instances' own fields. The
// Orchestrator performs the assembly of one pass: it reads lookup keys off
// the targets, groups them by (container, namespace), issues one fetch per
// group and scatters the fetched values through the accessor chain.
//
// Failures never abort a pass. A failing fetch leaves only its group
// unfilled, a failing write only its (target, operation) pair; both are
// logged and recorded in the returned diagnostics.
package execute
