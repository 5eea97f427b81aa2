// Package expression evaluates per-property override expressions written in
// CEL (https://cel.dev).
//
// Expressions see the following variables:
//
//	target     the instance being enriched
//	source     the value fetched from the container
//	key        the lookup key
//	resource   the source sub-field name of the property mapping
//	reference  the destination sub-field name of the property mapping
//	value      the value read from source (after resource resolution)
//
// Structs are exposed as maps under both their Go field names and their json
// names, so `source.displayName` and `source.DisplayName` both work.
package expression
