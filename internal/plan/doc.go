// Package plan turns declared enrichment rules into executable operation
// configurations.
//
// Resolution pipeline (per root type):
//  1. Consult the Cache; a hit is returned as is
//  2. Allocate the type's OperationConfiguration and register it in the
//     ParseContext before descending, so rules that loop back onto a type
//     being resolved reuse the same (incomplete) configuration
//  3. Turn assemble rules into AssembleOperations (containers and assemblers
//     located through the Locator)
//  4. Turn disassemble rules into DisassembleOperations, recursively resolving
//     explicit nested types; rules without a nested type stay dynamic
//  5. Stable-sort both operation lists by priority and mark the
//     configuration complete
//  6. Store every configuration created by the root call in the Cache
package plan
