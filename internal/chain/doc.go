// Package chain implements the polymorphic accessor chain: uniform reads and
// writes of named sub-fields across structs, maps, collections, arrays and
// absent values.
//
// Handlers are tried in ascending priority and the first one whose predicate
// matches wins. The null handler has the highest priority, so absent values
// never reach a concrete-shape handler. Collection and array handlers recurse
// through the Accessor interface, so nested heterogeneous shapes (slices of
// maps of structs, ...) need no dedicated handler.
//
// Transfer runs one property mapping: read, then every interceptor in order,
// then write.
package chain
