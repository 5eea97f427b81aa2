// Package container defines the data-source protocol used to fill fields in
// batch, and the stock implementations.
//
// A container answers one call per group of pending lookups:
//
//   - ScopeKey containers serve a single implicit dataset; the namespace
//     argument is ignored.
//   - ScopeNamespace containers partition keys by a named dataset (static
//     tables, enum dictionaries, batch-loading functions, SQL tables).
//   - ScopeSelf containers are never fetched; the target is its own source.
//
// Keys are normalised with NormalizeKey before they reach a container, so
// int, int32 and integral float64 keys (as decoded from JSON) all compare equal.
package container
